package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashrajoria/aws-serverless-examples/services/transform-service/models"
	"go.uber.org/zap"
)

func decodeAll(t *testing.T, content string) []*models.RawRecord {
	t.Helper()
	dec, err := NewDecoder(strings.NewReader(content))
	require.NoError(t, err)
	var out []*models.RawRecord
	for {
		rec, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec)
	}
}

func values(r *models.RawRecord) []string {
	var out []string
	r.Range(func(_, v string) bool {
		out = append(out, v)
		return true
	})
	return out
}

func TestDecoder_RowsInFileOrder(t *testing.T) {
	recs := decodeAll(t, "id,name\n1,a\n2,b\n3,c\n")
	require.Len(t, recs, 3)
	for i, want := range []string{"1", "2", "3"} {
		got, _ := recs[i].Get("id")
		assert.Equal(t, want, got)
	}
}

func TestDecoder_ShortRowsArePadded(t *testing.T) {
	recs := decodeAll(t, "a,b,c\n1\n")
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"a", "b", "c"}, recs[0].Keys())
	assert.Equal(t, []string{"1", "", ""}, values(recs[0]))
}

func TestDecoder_LongRowsKeepExtraValues(t *testing.T) {
	recs := decodeAll(t, "a,b\n1,2,3,4\n")
	require.Len(t, recs, 1)
	extra, ok := recs[0].Get(ExtraColumnsKey)
	assert.True(t, ok)
	assert.Equal(t, "3,4", extra)
}

func TestDecoder_ExtraValuesAppendToRealExtraColumn(t *testing.T) {
	recs := decodeAll(t, "id,_extra\n1,real,surplus\n2,,more\n3,only\n")
	require.Len(t, recs, 3)

	for i, want := range []string{"real,surplus", "more", "only"} {
		got, _ := recs[i].Get(ExtraColumnsKey)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, []string{"id", "_extra"}, recs[0].Keys())
}

func TestDecoder_ReaderErrorEndsDecoding(t *testing.T) {
	boom := errors.New("connection reset")
	dec, err := NewDecoder(io.MultiReader(strings.NewReader("a,b\n1,2\n"), iotest.ErrReader(boom)))
	require.NoError(t, err)

	rec, err := dec.Next()
	require.NoError(t, err)
	v, _ := rec.Get("b")
	assert.Equal(t, "2", v)

	_, err = dec.Next()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, dec.Row())

	_, err = dec.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecoder_MalformedQuotingIsReadLeniently(t *testing.T) {
	recs := decodeAll(t, "a,b\nx\"y,\"unterminated\n")
	require.Len(t, recs, 1)
	a, _ := recs[0].Get("a")
	assert.Equal(t, "x\"y", a)
}

func TestDecoder_DuplicateHeaderLastValueWins(t *testing.T) {
	recs := decodeAll(t, "id,name,id\n1,x,2\n")
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"id", "name"}, recs[0].Keys())
	id, _ := recs[0].Get("id")
	assert.Equal(t, "2", id)
}

func TestDecoder_QuotedFieldsAndBlankLines(t *testing.T) {
	recs := decodeAll(t, "name,note\n\"Doe, Jane\",\"said \"\"hi\"\"\"\n\n\"multi\nline\",x\n")
	require.Len(t, recs, 2)
	name, _ := recs[0].Get("name")
	note, _ := recs[0].Get("note")
	assert.Equal(t, "Doe, Jane", name)
	assert.Equal(t, `said "hi"`, note)
	name, _ = recs[1].Get("name")
	assert.Equal(t, "multi\nline", name)
}

func TestDecoder_EmptyInput(t *testing.T) {
	dec, err := NewDecoder(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, dec.Header())
	_, err = dec.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Empty(t, decodeAll(t, "h1,h2\n"))
}

func TestTransform_TrimsAndDropsEmpty(t *testing.T) {
	raw := models.NewRecord()
	raw.Set("name", "  Alice ")
	raw.Set("age", "   ")
	raw.Set("city", "\tParis\n")

	rec, err := Transform(raw, "people.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "city"}, rec.Data.Keys())
	city, _ := rec.Data.Get("city")
	assert.Equal(t, "Paris", city)
	assert.Equal(t, models.Metadata{SourceFile: "people.csv", TransformationType: "csv_to_json"}, rec.Metadata)

	for _, k := range rec.Data.Keys() {
		_, ok := raw.Get(k)
		assert.True(t, ok, "key %q must come from the raw record", k)
		v, _ := rec.Data.Get(k)
		assert.NotEmpty(t, strings.TrimSpace(v))
	}
}

func TestTransform_Idempotent(t *testing.T) {
	raw := models.NewRecord()
	raw.Set("a", " 1 ")
	raw.Set("b", "")

	first, err := Transform(raw, "x.csv")
	require.NoError(t, err)
	second, err := Transform(raw, "x.csv")
	require.NoError(t, err)

	assert.True(t, first.Data.Equal(second.Data))
	assert.Equal(t, first.Metadata, second.Metadata)
	b1, _ := Encode(first)
	b2, _ := Encode(second)
	assert.Equal(t, b1, b2)
}

func TestTransform_EmptyRecordFails(t *testing.T) {
	_, err := Transform(models.NewRecord(), "x.csv")
	assert.ErrorIs(t, err, errEmptyRecord)
}

type bytesGetter struct {
	body []byte
	err  error
}

func (b bytesGetter) GetObjectBytes(context.Context, string, string) ([]byte, error) {
	return b.body, b.err
}

func TestFetcher_StripsBOM(t *testing.T) {
	f := NewFetcher(bytesGetter{body: []byte("\xEF\xBB\xBFid\n1\n")})
	content, err := f.Fetch(context.Background(), "b", "k.csv")
	require.NoError(t, err)
	assert.Equal(t, "id\n1\n", content)
}

func TestFetcher_InvalidUTF8(t *testing.T) {
	f := NewFetcher(bytesGetter{body: []byte{'a', 0xff, 'b'}})
	_, err := f.Fetch(context.Background(), "b", "k.csv")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, FetchDecode, fetchErr.Kind)
	assert.ErrorIs(t, err, errInvalidUTF8)
}

func TestClassifyFetch(t *testing.T) {
	assert.Equal(t, FetchNotFound, classifyFetch(&smithy.GenericAPIError{Code: "NoSuchKey"}))
	assert.Equal(t, FetchAccessDenied, classifyFetch(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.Equal(t, FetchUnavailable, classifyFetch(errors.New("connection reset")))
}

func TestExtractObjects(t *testing.T) {
	ev := events.S3Event{Records: []events.S3EventRecord{
		{S3: events.S3Entity{Bucket: events.S3Bucket{Name: "b"}, Object: events.S3Object{Key: "dir/my+file.CSV"}}},
		{S3: events.S3Entity{Bucket: events.S3Bucket{Name: "b"}, Object: events.S3Object{Key: "image.png"}}},
	}}

	refs, err := ExtractObjects(ev, ".csv", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []ObjectRef{
		{Bucket: "b", Key: "dir/my file.CSV"},
		{Bucket: "b", Key: "image.png", Skip: true},
	}, refs)

	ev.Records[1].S3.Object.Key = ""
	refs, err = ExtractObjects(ev, ".csv", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, ObjectRef{Bucket: "b", Key: "", Skip: true}, refs[1])

	// Only a CSV key without a bucket is fatal.
	ev.Records[1].S3.Bucket.Name = ""
	_, err = ExtractObjects(ev, ".csv", zap.NewNop())
	require.NoError(t, err)

	ev.Records[0].S3.Bucket.Name = ""
	_, err = ExtractObjects(ev, ".csv", zap.NewNop())
	var notifErr *NotificationError
	assert.ErrorAs(t, err, &notifErr)
}

func TestUnescapeLenient(t *testing.T) {
	for raw, want := range map[string]string{
		"my+file%zz.csv":     "my file%zz.csv",
		"a%20b%zz%2Fc+d.csv": "a b%zz/c d.csv",
		"trailing%2":         "trailing%2",
		"%":                  "%",
		"%41%e2%82%ac":       "A\u20ac",
	} {
		assert.Equal(t, want, unescapeLenient(raw), raw)
	}
}

type failingPutter struct{ err error }

func (f failingPutter) PutRecord(context.Context, string, []byte) (string, error) {
	return "", f.err
}

func TestSink_WrapsDeliveryError(t *testing.T) {
	cause := errors.New("ThrottlingException")
	s := NewSink(failingPutter{err: cause}, "stream")

	raw := models.NewRecord()
	raw.Set("a", "1")
	rec, _ := Transform(raw, "a.csv")
	_, err := s.Deliver(context.Background(), rec)

	var delErr *DeliveryError
	require.ErrorAs(t, err, &delErr)
	assert.Equal(t, "stream", delErr.Stream)
	assert.ErrorIs(t, err, cause)
}
