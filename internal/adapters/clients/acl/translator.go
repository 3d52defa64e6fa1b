package acl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/jsamuelsen/quote-service/internal/domain"
)

// DefaultAvatarContentType is assumed when the remote omits Content-Type.
const DefaultAvatarContentType = "image/png"

// ErrBodyTooLarge is returned by ReadLimited when the body exceeds the cap.
var ErrBodyTooLarge = errors.New("response body too large")

// ReadLimited reads at most limit bytes from body. A body longer than limit
// yields ErrBodyTooLarge rather than a truncated payload.
func ReadLimited(body io.Reader, limit int64) ([]byte, error) {
	if body == nil {
		return nil, errors.New("response body is nil")
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if n > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit)
	}

	return buf.Bytes(), nil
}

// translateAvatar validates a downloaded payload and converts it to a domain
// avatar. The media type parameters (charset etc.) are stripped.
func translateAvatar(contentType string, data []byte) (*domain.Avatar, error) {
	if len(data) == 0 {
		return nil, errors.New("empty avatar body")
	}

	mediaType := DefaultAvatarContentType
	if strings.TrimSpace(contentType) != "" {
		parsed, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return nil, fmt.Errorf("parsing content type %q: %w", contentType, err)
		}
		mediaType = parsed
	}

	if !strings.HasPrefix(mediaType, "image/") {
		return nil, fmt.Errorf("unsupported avatar content type %q", mediaType)
	}

	return &domain.Avatar{
		ContentType: mediaType,
		Data:        data,
	}, nil
}
