package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveAndDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "tom.jpg", strings.NewReader("meow"), 4, "image/jpeg"))

	data, err := os.ReadFile(filepath.Join(dir, "tom.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "meow", string(data))

	require.NoError(t, store.Delete(ctx, "tom.jpg"))
	_, err = os.Stat(filepath.Join(dir, "tom.jpg"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, "tom.jpg"))
}

func TestLocalStore_RejectsExistingName(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "a.png", strings.NewReader("1"), 1, ""))
	assert.Error(t, store.Save(ctx, "a.png", strings.NewReader("2"), 1, ""))
}

func TestLocalStore_RejectsPathNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../escape.png", "sub/dir.png", ".."} {
		assert.Error(t, store.Save(context.Background(), name, strings.NewReader("x"), 1, ""), name)
	}
}

type fakeObjects struct {
	put    *s3.PutObjectInput
	body   string
	delKey string
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.delKey = *in.Key
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_SaveAndDelete(t *testing.T) {
	fake := &fakeObjects{}
	store := &S3Store{client: fake, bucket: "cats"}

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "tom.jpg", strings.NewReader("meow"), 4, "image/jpeg"))
	require.NotNil(t, fake.put)
	assert.Equal(t, "cats", *fake.put.Bucket)
	assert.Equal(t, "tom.jpg", *fake.put.Key)
	assert.Equal(t, "image/jpeg", *fake.put.ContentType)
	assert.Equal(t, int64(4), *fake.put.ContentLength)
	assert.Equal(t, "meow", fake.body)

	require.NoError(t, store.Delete(ctx, "tom.jpg"))
	assert.Equal(t, "tom.jpg", fake.delKey)
}
