package assetstore

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers the handful of object calls S3Store makes.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	respond := func(code int, header http.Header) *http.Response {
		if header == nil {
			header = http.Header{}
		}
		return &http.Response{StatusCode: code, Header: header, Body: io.NopCloser(bytes.NewReader(nil)), Request: req}
	}

	switch req.Method {
	case http.MethodHead:
		body, ok := f.objects[key]
		if !ok {
			return respond(http.StatusNotFound, nil), nil
		}
		return respond(http.StatusOK, http.Header{"Content-Length": {strconv.Itoa(len(body))}, "ETag": {`"etag"`}}), nil
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		f.objects[key] = body
		return respond(http.StatusOK, http.Header{"ETag": {`"etag"`}}), nil
	case http.MethodDelete:
		delete(f.objects, key)
		return respond(http.StatusNoContent, nil), nil
	}

	return respond(http.StatusNotImplemented, nil), nil
}

func newFakeS3Store(t *testing.T) (*S3Store, *fakeS3) {
	t.Helper()
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "SECRET")

	fake := &fakeS3{objects: map[string][]byte{}}
	s, err := NewS3Store(context.Background(), S3Config{
		Bucket:    "vm-assets",
		Endpoint:  "https://mock.s3.local",
		PathStyle: true,
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: fake}
		o.Credentials = credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	require.NoError(t, err)

	return s, fake
}

func TestS3StorePutAndDelete(t *testing.T) {
	s, fake := newFakeS3Store(t)
	ctx := context.Background()

	ref, err := s.Put(ctx, "flavors/vanilla.png", strings.NewReader("img"), PutOptions{ContentType: "image/png"})
	require.NoError(t, err)
	require.Equal(t, "https://mock.s3.local/vm-assets/flavors/vanilla.png", ref.URL)
	require.Contains(t, fake.objects, "flavors/vanilla.png")
	require.Equal(t, "flavors/vanilla.png", s.KeyForURL(ref.URL))

	_, err = s.Put(ctx, "flavors/vanilla.png", strings.NewReader("img"), PutOptions{})
	require.ErrorIs(t, err, ErrExists)

	require.NoError(t, s.Delete(ctx, "flavors/vanilla.png"))
	require.NotContains(t, fake.objects, "flavors/vanilla.png")
	require.ErrorIs(t, s.Delete(ctx, "flavors/vanilla.png"), ErrNotFound)
}

func TestS3BaseURL(t *testing.T) {
	require.Equal(t, "https://b.s3.eu-west-1.amazonaws.com/", s3BaseURL(S3Config{Bucket: "b", Region: "eu-west-1"}))
	require.Equal(t, "https://cdn.example.com/", s3BaseURL(S3Config{Bucket: "b", PublicURL: "https://cdn.example.com"}))
}
