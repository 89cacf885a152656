package enums

import "fmt"

// AttachmentKind classifies a product attachment.
type AttachmentKind string

const (
	AttachmentKindImage AttachmentKind = "image"
	AttachmentKindVideo AttachmentKind = "video"
	AttachmentKindFile  AttachmentKind = "file"
)

var validAttachmentKinds = []AttachmentKind{
	AttachmentKindImage,
	AttachmentKindVideo,
	AttachmentKindFile,
}

// String implements fmt.Stringer.
func (a AttachmentKind) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AttachmentKind.
func (a AttachmentKind) IsValid() bool {
	for _, candidate := range validAttachmentKinds {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAttachmentKind converts the raw string to AttachmentKind.
func ParseAttachmentKind(value string) (AttachmentKind, error) {
	for _, candidate := range validAttachmentKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid attachment kind %q", value)
}
