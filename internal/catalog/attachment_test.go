package catalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mzubak/shopcore-backend/pkg/db/models"
	pkgerrors "github.com/mzubak/shopcore-backend/pkg/errors"
	"github.com/mzubak/shopcore-backend/pkg/enums"
)

func TestValidateAttachment(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		attachment models.Attachment
		wantKey    string
	}{
		{
			name:       "stored image with allowed extension",
			attachment: models.Attachment{Kind: enums.AttachmentKindImage, FileKey: "products/iphone-7.jpg"},
		},
		{
			name:       "external url only",
			attachment: models.Attachment{Kind: enums.AttachmentKindVideo, URL: "https://cdn.example.com/teaser.mp4"},
		},
		{
			name:       "neither file nor url",
			attachment: models.Attachment{Kind: enums.AttachmentKindImage},
			wantKey:    pkgerrors.KeyNoAttachmentOrURL,
		},
		{
			name:       "extension outside the kind allow-list",
			attachment: models.Attachment{Kind: enums.AttachmentKindImage, FileKey: "products/iphone-7.pdf"},
			wantKey:    pkgerrors.KeyWrongExtension,
		},
		{
			name:       "file without extension",
			attachment: models.Attachment{Kind: enums.AttachmentKindFile, FileKey: "products/manual"},
			wantKey:    pkgerrors.KeyWrongExtension,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAttachment(&tc.attachment)
			if tc.wantKey == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			typed := pkgerrors.As(err)
			if typed == nil || typed.Message() != tc.wantKey {
				t.Fatalf("expected key %q, got %v", tc.wantKey, err)
			}
		})
	}
}

func TestValidateAttachmentContentSniffsRealType(t *testing.T) {
	t.Parallel()

	pngHeader := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 16)...)
	if err := ValidateAttachmentContent(enums.AttachmentKindImage, bytes.NewReader(pngHeader)); err != nil {
		t.Fatalf("expected png content to pass as image, got %v", err)
	}

	// A text file renamed to .jpg still fails the content check.
	err := ValidateAttachmentContent(enums.AttachmentKindImage, strings.NewReader("definitely not an image"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Message() != pkgerrors.KeyWrongExtension {
		t.Fatalf("expected wrong extension key, got %v", err)
	}
}
