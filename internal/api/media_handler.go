package api

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/tgshelf/tgshelf/internal/api/respond"
	"github.com/tgshelf/tgshelf/internal/api/validate"
	"github.com/tgshelf/tgshelf/internal/gateway"
	"github.com/tgshelf/tgshelf/internal/websession"
)

// multipartMemoryLimit bounds the in-memory part of multipart parsing;
// larger file parts spill to temp files.
const multipartMemoryLimit = 32 << 20

// MediaHandler is the HTTP transport for catalog and streaming operations.
type MediaHandler struct {
	gw        *gateway.Gateway
	sessions  *websession.Codec
	maxUpload int64
	log       zerolog.Logger
}

func NewMediaHandler(gw *gateway.Gateway, sessions *websession.Codec, maxUpload int64, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{gw: gw, sessions: sessions, maxUpload: maxUpload, log: log}
}

// List GET /get_saved_messages_media
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	state := h.sessions.Read(r)

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respond.WriteBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	items, err := h.gw.ListMedia(r.Context(), state.Credential, limit)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, items)
}

// StreamContent GET /stream_media/{id}
func (h *MediaHandler) StreamContent(w http.ResponseWriter, r *http.Request) {
	state := h.sessions.Read(r)
	id := mux.Vars(r)["id"]

	content, err := h.gw.StreamContent(r.Context(), state.Credential, id, gateway.LogProgress(h.log, 2*time.Second))
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", content.MIMEType)
	w.Header().Set("Content-Length", strconv.FormatInt(content.SizeBytes, 10))
	w.Header().Set("Content-Disposition", contentDisposition(content.Name))
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			// client went away; stop pulling chunks
			return
		default:
		}
		chunk, ok := content.Chunks.Next()
		if !ok {
			return
		}
		if _, err := w.Write(chunk); err != nil {
			return
		}
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}

// StreamThumbnail GET /stream_thumbnail/{id}
func (h *MediaHandler) StreamThumbnail(w http.ResponseWriter, r *http.Request) {
	state := h.sessions.Read(r)
	id := mux.Vars(r)["id"]

	// provider thumbnails are conventionally JPEG
	data, err := h.gw.StreamThumbnail(r.Context(), state.Credential, id)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// Upload POST /upload_file (multipart: file, optional fileName, optional tags)
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	state := h.sessions.Read(r)
	if !state.Authenticated() {
		respond.WriteUnauthorized(w, "user not authenticated")
		return
	}

	if r.ContentLength > h.maxUpload {
		respond.WritePayloadTooLarge(w, "file size exceeds limit")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.WritePayloadTooLarge(w, "file size exceeds limit")
			return
		}
		respond.WriteBadRequest(w, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.WriteBadRequest(w, "no file part in the request")
		return
	}
	defer func() { _ = file.Close() }()
	if header.Filename == "" && r.FormValue("fileName") == "" {
		respond.WriteBadRequest(w, "no file name supplied")
		return
	}

	customName := r.FormValue("fileName")
	if err := validate.UploadName(customName); err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	item, err := h.gw.UploadFile(r.Context(), state.Credential, file, header.Size,
		header.Filename, customName, r.FormValue("tags"), gateway.LogProgress(h.log, 2*time.Second))
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, item)
}

// contentDisposition builds an inline disposition header. Non-ASCII names
// get the RFC 5987 filename* form via mime.FormatMediaType.
func contentDisposition(name string) string {
	if v := mime.FormatMediaType("inline", map[string]string{"filename": name}); v != "" {
		return v
	}
	return `inline; filename="file"`
}
