package objectstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type stubGetter struct {
	body   string
	err    error
	bucket string
	key    string
}

func (g *stubGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	g.bucket, g.key = *in.Bucket, *in.Key
	if g.err != nil {
		return nil, g.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(g.body))}, nil
}

func TestS3Source_Load(t *testing.T) {
	g := &stubGetter{body: `{"skills":[{"name":"Go","category":"Language"},{"name":"Kafka","category":"Messaging"}]}`}
	src := S3Source{Client: g, Bucket: "config", Key: "skills.json"}

	tokens, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 2 || tokens[1].Name != "Kafka" {
		t.Fatalf("unexpected tokens: %+v", tokens)
	}
	if g.bucket != "config" || g.key != "skills.json" {
		t.Fatalf("unexpected object requested: %s/%s", g.bucket, g.key)
	}
}

func TestS3Source_Errors(t *testing.T) {
	if _, err := (S3Source{}).Load(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	boom := errors.New("access denied")
	_, err := S3Source{Client: &stubGetter{err: boom}, Bucket: "b", Key: "k"}.Load(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}

	_, err = S3Source{Client: &stubGetter{body: "not json"}, Bucket: "b", Key: "k"}.Load(context.Background())
	if err == nil {
		t.Fatalf("expected decode error")
	}
}
