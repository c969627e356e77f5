package model

import "time"

// Credential is the opaque exported session token for one remote identity.
// An empty value means unauthenticated. It lives in the caller's web session
// and is replaced wholesale on re-authentication, never mutated.
type Credential string

// PendingLogin is the transient state between a code request and its
// verification. At most one exists per caller.
type PendingLogin struct {
	Phone     string    `json:"phone"`
	CodeHash  string    `json:"codeHash"`
	CreatedAt time.Time `json:"createdAt"`
}

// MediaType is the frontend-facing classification of a catalog record.
type MediaType string

const (
	TypeImage    MediaType = "image"
	TypeVideo    MediaType = "video"
	TypeAudio    MediaType = "audio"
	TypeDocument MediaType = "document"
	TypeArchive  MediaType = "archive"
	TypeOther    MediaType = "other"
)

// MediaItem is the normalized catalog record describing one stored file.
// Items are built fresh per request and never mutated after construction.
type MediaItem struct {
	ID           string    `json:"id"`
	Type         MediaType `json:"type"`
	Name         string    `json:"name"`
	MIMEType     string    `json:"mimeType"`
	SizeBytes    int64     `json:"sizeBytes"`
	SizeDisplay  string    `json:"size"`
	TimestampMs  int64     `json:"timestampMs"`
	Tags         []string  `json:"tags"`
	ContentURL   string    `json:"contentUrl"`
	ThumbnailURL *string   `json:"thumbnailUrl,omitempty"`
}

// MediaKind is the provider-side media payload variant. The normalizer
// switches over every named kind so that adding one is a compile-visible
// change rather than a silent skip.
type MediaKind int

const (
	KindUnknown MediaKind = iota
	KindDocument
	KindVideo
	KindAudio
	KindPhoto
	KindVoice
	KindVideoNote
	KindAnimation
	KindSticker
)

func (k MediaKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindPhoto:
		return "photo"
	case KindVoice:
		return "voice"
	case KindVideoNote:
		return "video_note"
	case KindAnimation:
		return "animation"
	case KindSticker:
		return "sticker"
	default:
		return "unknown"
	}
}

// Thumb is one provider-supplied thumbnail reference.
type Thumb struct {
	Ref       string
	Width     int
	Height    int
	SizeBytes int64
}

// Media is the tagged media payload attached to a raw message.
// FileName, MIMEType and SizeBytes may be absent depending on the kind;
// UniqueID is always present and stable per media object.
type Media struct {
	Kind      MediaKind
	UniqueID  string
	FileName  string
	MIMEType  string
	SizeBytes int64
	Thumbs    []Thumb
}

// RawMessage is one message from the caller's saved-storage channel as the
// remote protocol reports it. A zero Date means the provider omitted it.
type RawMessage struct {
	ID      string
	Date    time.Time
	Caption string
	Media   *Media
}

// MediaRef addresses downloadable bytes: the full payload of a message, or
// one of its thumbnails when Thumb is set.
type MediaRef struct {
	MessageID string
	Thumb     string
}
