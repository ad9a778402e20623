package todo

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeObjects struct {
	body   string
	err    error
	bucket string
	key    string
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket, f.key = aws.ToString(in.Bucket), aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3ListerList(t *testing.T) {
	objects := &fakeObjects{body: `[{"id":4,"completed":false,"text":"Add CORS"}]`}
	lister := NewS3ListerWithClient(objects, "todos", "list.json", nil, nil)

	records, err := lister.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if objects.bucket != "todos" || objects.key != "list.json" {
		t.Errorf("read s3://%s/%s", objects.bucket, objects.key)
	}
	if len(records) != 1 || records[0].ID != 4 {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestS3ListerErrors(t *testing.T) {
	denied := errors.New("access denied")
	lister := NewS3ListerWithClient(&fakeObjects{err: denied}, "b", "k", nil, nil)
	_, err := lister.List(context.Background())
	var ferr *FetchError
	if !errors.As(err, &ferr) || !errors.Is(err, denied) {
		t.Errorf("expected FetchError wrapping denial, got %v", err)
	}

	lister = NewS3ListerWithClient(&fakeObjects{body: `{}`}, "b", "k", nil, nil)
	_, err = lister.List(context.Background())
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("expected ParseError, got %v", err)
	}
}

func TestNewS3ListerRequiresLocation(t *testing.T) {
	if _, err := NewS3Lister(S3Config{Bucket: "b"}, nil, nil); err == nil {
		t.Error("expected error without key")
	}
	if _, err := NewS3Lister(S3Config{Bucket: "b", Key: "k", Endpoint: "http://localhost:9000"}, nil, nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
