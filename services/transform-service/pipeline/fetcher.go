package pipeline

import (
	"bytes"
	"context"
	"errors"
	"unicode/utf8"

	awspkg "github.com/yashrajoria/aws-serverless-examples/pkg/aws"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var errInvalidUTF8 = errors.New("content is not valid UTF-8")

// Fetcher reads whole objects and checks they are UTF-8 text.
type Fetcher struct {
	objects awspkg.ObjectGetter
}

func NewFetcher(objects awspkg.ObjectGetter) *Fetcher {
	return &Fetcher{objects: objects}
}

// Fetch returns the text of bucket/key with any leading byte order mark removed.
// Every failure is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, bucket, key string) (string, error) {
	body, err := f.objects.GetObjectBytes(ctx, bucket, key)
	if err != nil {
		return "", &FetchError{Bucket: bucket, Key: key, Kind: classifyFetch(err), Err: err}
	}
	body = bytes.TrimPrefix(body, utf8BOM)
	if !utf8.Valid(body) {
		return "", &FetchError{Bucket: bucket, Key: key, Kind: FetchDecode, Err: errInvalidUTF8}
	}
	return string(body), nil
}
