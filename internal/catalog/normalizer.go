// Package catalog shapes raw remote messages into normalized media items.
// Everything here is pure except the timestamp fallback for messages the
// provider reports without a date.
package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tgshelf/tgshelf/internal/model"
)

// Normalizer maps raw messages to catalog items. Identical input yields a
// byte-identical item, except when the message carries no date: the current
// time is substituted and the event is logged as a data-quality condition.
type Normalizer struct {
	baseURL string
	now     func() time.Time
	log     zerolog.Logger
}

// NewNormalizer creates a Normalizer. baseURL prefixes the item locators;
// empty means gateway-relative URLs.
func NewNormalizer(baseURL string, log zerolog.Logger) *Normalizer {
	return &Normalizer{
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
		log:     log,
	}
}

// Normalize converts one raw message into a MediaItem. Messages without
// media yield (nil, nil). Unknown media kinds yield an error so listings can
// skip and log them without aborting.
func (n *Normalizer) Normalize(msg model.RawMessage) (*model.MediaItem, error) {
	if msg.Media == nil {
		return nil, nil
	}
	m := msg.Media

	name, mimeType, err := kindDefaults(m)
	if err != nil {
		return nil, err
	}
	if m.FileName != "" {
		name = m.FileName
	} else if cn := captionName(msg.Caption); cn != "" {
		name = cn
	}
	if m.MIMEType != "" {
		mimeType = m.MIMEType
	}

	ts := msg.Date
	if ts.IsZero() {
		ts = n.now()
		n.log.Debug().Str("message_id", msg.ID).Msg("message has no date, substituting current time")
	}

	item := &model.MediaItem{
		ID:          msg.ID,
		Type:        Classify(m.Kind, mimeType),
		Name:        name,
		MIMEType:    mimeType,
		SizeBytes:   m.SizeBytes,
		SizeDisplay: FormatFileSize(m.SizeBytes),
		TimestampMs: ts.UnixMilli(),
		Tags:        ParseTags(msg.Caption),
		ContentURL:  n.baseURL + "/stream_media/" + msg.ID,
	}
	if HasThumbnail(m) {
		u := n.baseURL + "/stream_thumbnail/" + msg.ID
		item.ThumbnailURL = &u
	}
	return item, nil
}

// kindDefaults returns the per-kind filename and MIME fallbacks. The switch
// is exhaustive over the named kinds; an unhandled kind is an error, not a
// silent skip.
func kindDefaults(m *model.Media) (name, mimeType string, err error) {
	switch m.Kind {
	case model.KindDocument:
		return "file_" + m.UniqueID, "application/octet-stream", nil
	case model.KindVideo:
		return "video_" + m.UniqueID + ".mp4", "video/mp4", nil
	case model.KindAudio:
		return "audio_" + m.UniqueID + ".mp3", "audio/mpeg", nil
	case model.KindPhoto:
		return "photo_" + m.UniqueID + ".jpg", "image/jpeg", nil
	case model.KindVoice:
		return "voice_" + m.UniqueID + ".ogg", "audio/ogg", nil
	case model.KindVideoNote:
		return "video_note_" + m.UniqueID + ".mp4", "video/mp4", nil
	case model.KindAnimation:
		return "animation_" + m.UniqueID + ".mp4", "video/mp4", nil
	case model.KindSticker:
		return "sticker_" + m.UniqueID + ".webp", "image/webp", nil
	default:
		return "", "", fmt.Errorf("unhandled media kind %q", m.Kind)
	}
}

// captionName extracts a display name from the caption's first line. Used
// only when the provider supplies no filename; a line carrying tag markers
// is not a name.
func captionName(caption string) string {
	first, _, _ := strings.Cut(caption, "\n")
	first = strings.TrimSpace(first)
	if first == "" || strings.Contains(first, "#") {
		return ""
	}
	return first
}

var archiveMIMEs = map[string]bool{
	"application/zip":              true,
	"application/x-zip-compressed": true,
	"application/x-rar-compressed": true,
	"application/vnd.rar":          true,
	"application/x-7z-compressed":  true,
	"application/x-tar":            true,
	"application/gzip":             true,
	"application/x-gzip":           true,
	"application/x-bzip2":          true,
}

// Classify derives the frontend type. The provider kind decides directly for
// rich kinds; generic documents fall through to MIME-based classification.
func Classify(kind model.MediaKind, mimeType string) model.MediaType {
	switch kind {
	case model.KindPhoto, model.KindSticker:
		return model.TypeImage
	case model.KindVideo, model.KindVideoNote, model.KindAnimation:
		return model.TypeVideo
	case model.KindAudio, model.KindVoice:
		return model.TypeAudio
	}

	mt := strings.ToLower(mimeType)
	switch {
	case strings.HasPrefix(mt, "image/"):
		return model.TypeImage
	case strings.HasPrefix(mt, "video/"):
		return model.TypeVideo
	case strings.HasPrefix(mt, "audio/"):
		return model.TypeAudio
	case archiveMIMEs[mt]:
		return model.TypeArchive
	case strings.HasPrefix(mt, "text/"),
		mt == "application/pdf",
		mt == "application/json",
		mt == "application/msword",
		mt == "application/rtf",
		strings.HasPrefix(mt, "application/vnd.openxmlformats-officedocument"),
		strings.HasPrefix(mt, "application/vnd.oasis.opendocument"):
		return model.TypeDocument
	default:
		return model.TypeOther
	}
}

// HasThumbnail reports whether a thumbnail is actually derivable: photos
// always qualify, every other kind needs an explicit thumbnail entry.
func HasThumbnail(m *model.Media) bool {
	if m.Kind == model.KindPhoto {
		return true
	}
	return len(m.Thumbs) > 0
}

// BestThumb selects the largest explicit thumbnail entry, preferring pixel
// area and breaking ties by byte size. Returns nil when none exists.
func BestThumb(m *model.Media) *model.Thumb {
	var best *model.Thumb
	for i := range m.Thumbs {
		t := &m.Thumbs[i]
		if best == nil {
			best = t
			continue
		}
		ba, ta := best.Width*best.Height, t.Width*t.Height
		if ta > ba || (ta == ba && t.SizeBytes > best.SizeBytes) {
			best = t
		}
	}
	return best
}
