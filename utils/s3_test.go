package utils

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func newTestPresigner() *Presigner {
	client := s3.New(s3.Options{
		Region:      "eu-central-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	})
	return NewPresignerFromClient(client, "molo-user-photos")
}

func TestPresignerSignGetURL(t *testing.T) {
	p := newTestPresigner()

	raw, err := p.SignGetURL(context.Background(), "users/1/photo.jpg", time.Hour)
	if err != nil {
		t.Fatalf("SignGetURL() error = %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("signed URL does not parse: %v", err)
	}
	if !strings.Contains(u.Host, "molo-user-photos") && !strings.Contains(u.Path, "molo-user-photos") {
		t.Errorf("bucket missing from URL %q", raw)
	}
	if !strings.HasSuffix(u.Path, "users/1/photo.jpg") {
		t.Errorf("path = %q, want key suffix", u.Path)
	}
	q := u.Query()
	if q.Get("X-Amz-Expires") != "3600" {
		t.Errorf("X-Amz-Expires = %q, want 3600", q.Get("X-Amz-Expires"))
	}
	if q.Get("X-Amz-Signature") == "" {
		t.Error("missing X-Amz-Signature")
	}
}

func TestPresignerRejectsEmptyKey(t *testing.T) {
	p := newTestPresigner()

	if _, err := p.SignGetURL(context.Background(), "", time.Hour); err == nil {
		t.Fatal("expected error for empty key")
	}
}
