// Package gateway orchestrates the media operations against the remote
// provider: catalog listing, content and thumbnail streaming, and upload.
package gateway

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tgshelf/tgshelf/internal/catalog"
	"github.com/tgshelf/tgshelf/internal/model"
	"github.com/tgshelf/tgshelf/internal/remote"
	"github.com/tgshelf/tgshelf/internal/session"
)

type Gateway struct {
	sessions  *session.Manager
	norm      *catalog.Normalizer
	listLimit int
	log       zerolog.Logger
}

func New(sessions *session.Manager, norm *catalog.Normalizer, listLimit int, log zerolog.Logger) *Gateway {
	if listLimit <= 0 {
		listLimit = 100
	}
	return &Gateway{sessions: sessions, norm: norm, listLimit: listLimit, log: log}
}

// ListMedia returns up to limit normalized items from the caller's
// saved-storage channel, newest first. Messages that fail to normalize are
// skipped and logged; they never abort the listing.
func (g *Gateway) ListMedia(ctx context.Context, cred model.Credential, limit int) ([]*model.MediaItem, error) {
	if cred == "" {
		return nil, model.ErrUnauthorized
	}
	if limit <= 0 || limit > g.listLimit {
		limit = g.listLimit
	}

	items := []*model.MediaItem{}
	err := g.sessions.WithSession(ctx, cred, func(rs remote.Session) error {
		msgs, err := rs.RecentMessages(ctx, limit)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			item, err := g.norm.Normalize(msg)
			if err != nil {
				g.log.Warn().Err(err).Str("message_id", msg.ID).Msg("skipping message that failed to normalize")
				continue
			}
			if item == nil {
				continue
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Content is one downloadable payload: headers plus a finite, non-restartable
// chunk sequence. The full payload resides in memory for the duration of the
// response; see ChunkReader for the scalability note.
type Content struct {
	Name      string
	MIMEType  string
	SizeBytes int64
	Chunks    *ChunkReader
}

// StreamContent fetches the message by id and downloads its media payload.
// Name, MIME and size come straight from the raw payload rather than the
// normalizer. Absent messages and medialess messages yield model.ErrNotFound.
func (g *Gateway) StreamContent(ctx context.Context, cred model.Credential, id string, progress remote.ProgressFunc) (*Content, error) {
	if cred == "" {
		return nil, model.ErrUnauthorized
	}

	var content *Content
	err := g.sessions.WithSession(ctx, cred, func(rs remote.Session) error {
		msg, err := rs.MessageByID(ctx, id)
		if err != nil {
			return err
		}
		if msg == nil || msg.Media == nil {
			return model.ErrNotFound
		}
		m := msg.Media

		data, err := rs.Download(ctx, model.MediaRef{MessageID: id}, progress)
		if err != nil {
			return err
		}

		name := m.FileName
		if name == "" {
			name = "media_" + m.UniqueID
		}
		mimeType := m.MIMEType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		content = &Content{
			Name:      name,
			MIMEType:  mimeType,
			SizeBytes: int64(len(data)),
			Chunks:    NewChunkReader(data, DefaultChunkSize),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return content, nil
}

// StreamThumbnail downloads the best available thumbnail as one opaque blob.
// Photos fall back to the photo object itself when no explicit thumbnail
// entry exists; every other kind requires one. Provider thumbnails are
// conventionally JPEG.
func (g *Gateway) StreamThumbnail(ctx context.Context, cred model.Credential, id string) ([]byte, error) {
	if cred == "" {
		return nil, model.ErrUnauthorized
	}

	var data []byte
	err := g.sessions.WithSession(ctx, cred, func(rs remote.Session) error {
		msg, err := rs.MessageByID(ctx, id)
		if err != nil {
			return err
		}
		if msg == nil || msg.Media == nil {
			return model.ErrNotFound
		}
		m := msg.Media

		ref := model.MediaRef{MessageID: id}
		if best := catalog.BestThumb(m); best != nil {
			ref.Thumb = best.Ref
		} else if m.Kind != model.KindPhoto {
			return model.ErrNotFound
		}

		data, err = rs.Download(ctx, ref, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// UploadFile sends the byte stream to the caller's saved-storage channel and
// returns the normalized confirmation item. customName overrides declaredName
// when non-empty. The provider is left free to build a native rich preview.
func (g *Gateway) UploadFile(ctx context.Context, cred model.Credential, r io.Reader, size int64, declaredName, customName, tagsInput string, progress remote.ProgressFunc) (*model.MediaItem, error) {
	if cred == "" {
		return nil, model.ErrUnauthorized
	}
	name := strings.TrimSpace(customName)
	if name == "" {
		name = strings.TrimSpace(declaredName)
	}
	if name == "" {
		return nil, model.NewValidationError("file", "no file name supplied")
	}
	caption := catalog.BuildCaption(name, tagsInput)

	var item *model.MediaItem
	err := g.sessions.WithSession(ctx, cred, func(rs remote.Session) error {
		msg, err := rs.SendDocument(ctx, r, size, name, caption, progress)
		if err != nil {
			return err
		}
		if msg == nil || msg.Media == nil {
			return model.ErrUploadFailed
		}
		item, err = g.norm.Normalize(*msg)
		if err != nil || item == nil {
			g.log.Error().Err(err).Msg("provider confirmation did not normalize")
			return model.ErrUploadFailed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	g.log.Info().Str("name", name).Int64("size", item.SizeBytes).Msg("file uploaded")
	return item, nil
}
