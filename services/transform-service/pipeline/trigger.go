package pipeline

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// ObjectRef is one object named by a notification, with its key decoded.
type ObjectRef struct {
	Bucket string
	Key    string
	// Skip is set when the key does not carry the CSV suffix.
	Skip bool
}

// ExtractObjects turns an S3 notification into object references, in event
// order. Keys are form-decoded ("+" is a space); malformed escapes are kept
// literally. Objects without the suffix, including an empty key, are returned
// with Skip set. A CSV key without a bucket fails the whole notification.
func ExtractObjects(event events.S3Event, suffix string, log *zap.Logger) ([]ObjectRef, error) {
	if len(event.Records) == 0 {
		return nil, &NotificationError{Reason: "no records"}
	}

	refs := make([]ObjectRef, 0, len(event.Records))
	for i, rec := range event.Records {
		bucket := rec.S3.Bucket.Name
		rawKey := rec.S3.Object.Key

		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			log.Warn("Object key has malformed escapes, decoding leniently",
				zap.String("bucket", bucket), zap.String("key", rawKey), zap.Error(err))
			key = unescapeLenient(rawKey)
		}

		ref := ObjectRef{Bucket: bucket, Key: key}
		if !hasSuffixFold(key, suffix) {
			log.Warn("Skipping non-CSV file", zap.String("bucket", bucket), zap.String("key", key))
			ref.Skip = true
			refs = append(refs, ref)
			continue
		}
		if bucket == "" {
			return nil, &NotificationError{Reason: fmt.Sprintf("record %d has no bucket name", i)}
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// unescapeLenient form-decodes s, leaving any "%" not followed by two hex
// digits as it is.
func unescapeLenient(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	}
	return c - '0'
}
