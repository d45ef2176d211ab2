package s3

import (
	"context"
	"io"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/dictcache/blobstore"
)

// fakeClient serves objects from an in-memory map with range support.
type fakeClient struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeClient() *fakeClient {
	return &fakeClient{objects: make(map[string][]byte)}
}

func (f *fakeClient) HeadObject(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[*params.Key]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(data)))}, nil
}

func (f *fakeClient) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[*params.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	start, end := int64(0), int64(len(data))-1
	if params.Range != nil {
		spec := strings.TrimPrefix(*params.Range, "bytes=")
		parts := strings.SplitN(spec, "-", 2)
		start, _ = strconv.ParseInt(parts[0], 10, 64)
		end, _ = strconv.ParseInt(parts[1], 10, 64)
		if end >= int64(len(data)) {
			end = int64(len(data)) - 1
		}
	}
	body := data[start : end+1]
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(string(body))),
		ContentLength: aws.Int64(int64(len(body))),
	}, nil
}

func (f *fakeClient) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*params.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3StoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newFakeClient(), "bucket", "dicts/")

	require.NoError(t, store.Put(ctx, "snap.bin", []byte("hello s3 ranged reads")))

	b, err := store.Open(ctx, "snap.bin")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, int64(21), b.Size())

	data, err := blobstore.ReadAll(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello s3 ranged reads"), data)

	// Ranged read in the middle.
	p := make([]byte, 2)
	n, err := b.ReadAt(ctx, p, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte("s3"), p)
}

func TestS3StoreNotFound(t *testing.T) {
	store := NewStore(newFakeClient(), "bucket", "")
	_, err := store.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
