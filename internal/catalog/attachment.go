package catalog

import (
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mzubak/shopcore-backend/pkg/db/models"
	pkgerrors "github.com/mzubak/shopcore-backend/pkg/errors"
	"github.com/mzubak/shopcore-backend/pkg/enums"
)

// attachmentExtensions is the allow-list per attachment kind. Extensions are
// stored without the leading dot.
var attachmentExtensions = map[enums.AttachmentKind][]string{
	enums.AttachmentKindImage: {"jpg", "jpeg", "png", "gif", "webp"},
	enums.AttachmentKindVideo: {"mp4", "webm", "ogv", "mov"},
	enums.AttachmentKindFile:  {"pdf", "zip", "txt", "doc", "docx", "xls", "xlsx"},
}

// ValidateAttachment enforces the model-level attachment invariants: a file
// or URL must be present, and a stored file's extension must match the
// kind's allow-list.
func ValidateAttachment(attachment *models.Attachment) error {
	if attachment.FileKey == "" && attachment.URL == "" {
		return pkgerrors.Validation(pkgerrors.KeyNoAttachmentOrURL)
	}
	if attachment.FileKey != "" {
		ext := strings.TrimPrefix(strings.ToLower(extensionOf(attachment.FileKey)), ".")
		if !extensionAllowed(attachment.Kind, ext) {
			return pkgerrors.Validation(pkgerrors.KeyWrongExtension).
				WithDetails(map[string]any{"allowed": attachmentExtensions[attachment.Kind]})
		}
	}
	return nil
}

// ValidateAttachmentContent sniffs the actual file content and rejects it
// when the detected type does not belong to the attachment kind. Guards
// against files renamed to pass the extension check.
func ValidateAttachmentContent(kind enums.AttachmentKind, content io.Reader) error {
	detected, err := mimetype.DetectReader(content)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable attachment content")
	}
	ext := strings.TrimPrefix(detected.Extension(), ".")
	if !extensionAllowed(kind, ext) {
		return pkgerrors.Validation(pkgerrors.KeyWrongExtension).
			WithDetails(map[string]any{"detected": detected.String(), "allowed": attachmentExtensions[kind]})
	}
	return nil
}

func extensionAllowed(kind enums.AttachmentKind, ext string) bool {
	for _, allowed := range attachmentExtensions[kind] {
		if allowed == ext {
			return true
		}
	}
	return false
}

func extensionOf(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx:]
	}
	return ""
}
