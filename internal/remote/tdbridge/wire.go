package tdbridge

import (
	"strconv"
	"time"

	"github.com/tgshelf/tgshelf/internal/model"
)

type wireMessage struct {
	ID      int64      `json:"id"`
	Date    int64      `json:"date"`
	Caption string     `json:"caption"`
	Media   *wireMedia `json:"media"`
}

type wireMedia struct {
	Kind     string      `json:"kind"`
	UniqueID string      `json:"unique_id"`
	FileName string      `json:"file_name"`
	MIMEType string      `json:"mime_type"`
	Size     int64       `json:"size"`
	Thumbs   []wireThumb `json:"thumbs"`
}

type wireThumb struct {
	Ref    string `json:"ref"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"`
}

var kindNames = map[string]model.MediaKind{
	"document":   model.KindDocument,
	"video":      model.KindVideo,
	"audio":      model.KindAudio,
	"photo":      model.KindPhoto,
	"voice":      model.KindVoice,
	"video_note": model.KindVideoNote,
	"animation":  model.KindAnimation,
	"sticker":    model.KindSticker,
}

func (wm wireMessage) toModel() model.RawMessage {
	msg := model.RawMessage{
		ID:      strconv.FormatInt(wm.ID, 10),
		Caption: wm.Caption,
	}
	if wm.Date > 0 {
		msg.Date = time.Unix(wm.Date, 0).UTC()
	}
	if wm.Media != nil {
		m := &model.Media{
			Kind:      kindNames[wm.Media.Kind],
			UniqueID:  wm.Media.UniqueID,
			FileName:  wm.Media.FileName,
			MIMEType:  wm.Media.MIMEType,
			SizeBytes: wm.Media.Size,
		}
		for _, t := range wm.Media.Thumbs {
			m.Thumbs = append(m.Thumbs, model.Thumb{
				Ref:       t.Ref,
				Width:     t.Width,
				Height:    t.Height,
				SizeBytes: t.Size,
			})
		}
		msg.Media = m
	}
	return msg
}
