// AngelaMos | 2026
// uploader.go

package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/ploteasy/ploteasy-api/internal/core"
)

const defaultMaxImageBytes = 10 << 20

type Uploader struct {
	store    Store
	folder   string
	maxBytes int64
}

func NewUploader(store Store, folder string, maxBytes int64) *Uploader {
	if maxBytes <= 0 {
		maxBytes = defaultMaxImageBytes
	}
	return &Uploader{
		store:    store,
		folder:   strings.Trim(folder, "/"),
		maxBytes: maxBytes,
	}
}

// UploadDataURI accepts "data:image/<type>;base64,<payload>".
func (u *Uploader) UploadDataURI(ctx context.Context, dataURI string) (string, error) {
	data, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	return u.Upload(ctx, data)
}

// Upload stores raw image bytes. The declared type is never trusted; the
// content is sniffed.
func (u *Uploader) Upload(ctx context.Context, data []byte) (string, error) {
	ctx, span := core.StartSpan(ctx, "media.Upload")
	defer span.End()

	if len(data) == 0 {
		return "", core.ValidationError("image is empty")
	}
	if int64(len(data)) > u.maxBytes {
		return "", core.ValidationError(
			fmt.Sprintf("image exceeds %d bytes", u.maxBytes),
		)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", core.ValidationError("file is not an image")
	}

	key := path.Join(u.folder, uuid.NewString()+mt.Extension())
	url, err := u.store.Put(ctx, key, data, mt.String())
	if err != nil {
		core.SetSpanError(ctx, err)
		return "", fmt.Errorf("upload image: %w", err)
	}

	return url, nil
}

func DecodeDataURI(dataURI string) ([]byte, error) {
	rest, ok := strings.CutPrefix(dataURI, "data:")
	if !ok {
		return nil, core.ValidationError("image must be a data URI")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, core.ValidationError("image must be base64 encoded")
	}
	if !strings.HasPrefix(meta, "image/") {
		return nil, core.ValidationError("file is not an image")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil {
		return nil, core.ValidationError("image payload is not valid base64")
	}

	return data, nil
}
