package exportstore

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perr "datalens/internal/platform/errors"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

var testID = uuid.MustParse("6f1c1f4e-0a7b-4c1d-9a55-0e3f5d2b8c11")

func TestKey(t *testing.T) {
	at := time.Date(2025, 3, 4, 23, 30, 0, 0, time.FixedZone("x", -2*3600))
	cases := []struct {
		prefix string
		want   string
	}{
		{"", "exports/2025/03/05/6f1c1f4e-0a7b-4c1d-9a55-0e3f5d2b8c11-query-results-2025-03-05.csv"},
		{"tenant-a/", "tenant-a/exports/2025/03/05/6f1c1f4e-0a7b-4c1d-9a55-0e3f5d2b8c11-query-results-2025-03-05.csv"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.prefix, func(t *testing.T) {
			assert.Equal(t, tc.want, Key(tc.prefix, at, testID))
		})
	}
}

func TestUpload(t *testing.T) {
	fp := &fakePutter{}
	s := newStore(fp, Config{Bucket: "exports", Prefix: "dl/"})
	s.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	s.newID = func() uuid.UUID { return testID }

	obj, err := s.Upload(context.Background(), []byte("a,b\n\"1\",\"2\""))
	require.NoError(t, err)

	wantKey := "dl/exports/2025/01/02/6f1c1f4e-0a7b-4c1d-9a55-0e3f5d2b8c11-query-results-2025-01-02.csv"
	assert.Equal(t, Object{Bucket: "exports", Key: wantKey, Size: 11}, obj)
	require.NotNil(t, fp.in)
	assert.Equal(t, "exports", aws.ToString(fp.in.Bucket))
	assert.Equal(t, wantKey, aws.ToString(fp.in.Key))
	assert.Equal(t, "text/csv; charset=utf-8", aws.ToString(fp.in.ContentType))
	assert.Contains(t, aws.ToString(fp.in.ContentDisposition), "query-results-2025-01-02.csv")
	assert.Equal(t, "a,b\n\"1\",\"2\"", string(fp.body))
}

func TestUpload_Error(t *testing.T) {
	s := newStore(&fakePutter{err: errors.New("access denied")}, Config{Bucket: "exports"})
	_, err := s.Upload(context.Background(), []byte("x"))
	require.Error(t, err)
	assert.Equal(t, perr.ErrorCodeUpstream, perr.CodeOf(err))
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.Error(t, err)
	assert.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(err))
	assert.False(t, Config{Bucket: "  "}.Enabled())
}

func TestNew_StaticCredentials(t *testing.T) {
	s, err := New(context.Background(), Config{
		Bucket:          "exports",
		Endpoint:        "http://127.0.0.1:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, defaultRegion, s.cfg.Region)
	assert.NotNil(t, s.client)
}
