// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package remote

import (
	"bytes"
	"context"
	"io"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 is an in-memory s3API keyed by object key.
type fakeS3 struct {
	objects map[string][]byte
	deletes int
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	content, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[awsv2.ToString(in.Key)] = content
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	content, ok := f.objects[awsv2.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(content))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	content, ok := f.objects[awsv2.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	size := int64(len(content))
	return &s3.HeadObjectOutput{ContentLength: &size}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{}
	prefix := awsv2.ToString(in.Prefix)
	for key := range f.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			k := key
			out.Contents = append(out.Contents, types.Object{Key: &k})
		}
	}
	return out, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	// S3 delete succeeds whether or not the key exists.
	delete(f.objects, awsv2.ToString(in.Key))
	f.deletes++
	return &s3.DeleteObjectOutput{}, nil
}

func newTestS3Store(fake *fakeS3) *s3RemoteStore {
	return &s3RemoteStore{
		client: fake,
		bucket: "clips",
		prefix: "clipsync",
		creds:  &stubCreds{token: "t"},
	}
}

func TestS3_UpsertAndRead(t *testing.T) {
	fake := newFakeS3()
	store := newTestS3Store(fake)

	ref, err := store.UpsertFile(context.Background(), "item-a.json", []byte(`{"id":"a"}`), "")
	require.NoError(t, err)
	assert.Equal(t, "clipsync/item-a.json", ref.ID)

	content, err := store.ReadFile(context.Background(), ref.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"a"}`), content)
}

func TestS3_UpsertWithExistingIDOverwrites(t *testing.T) {
	fake := newFakeS3()
	store := newTestS3Store(fake)

	ref, err := store.UpsertFile(context.Background(), "item-a.json", []byte("v1"), "")
	require.NoError(t, err)

	_, err = store.UpsertFile(context.Background(), "item-a.json", []byte("v2"), ref.ID)
	require.NoError(t, err)

	content, err := store.ReadFile(context.Background(), ref.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), content)
	assert.Len(t, fake.objects, 1)
}

func TestS3_ReadMissingIsNotFound(t *testing.T) {
	store := newTestS3Store(newFakeS3())

	_, err := store.ReadFile(context.Background(), "clipsync/missing.json")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestS3_FindFile(t *testing.T) {
	fake := newFakeS3()
	store := newTestS3Store(fake)

	ref, err := store.FindFile(context.Background(), "manifest.json")
	require.NoError(t, err)
	assert.Nil(t, ref, "absence is not an error")

	_, err = store.UpsertFile(context.Background(), "manifest.json", []byte("{}"), "")
	require.NoError(t, err)

	ref, err = store.FindFile(context.Background(), "manifest.json")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, "clipsync/manifest.json", ref.ID)
}

func TestS3_ListFilesStripsPrefix(t *testing.T) {
	fake := newFakeS3()
	store := newTestS3Store(fake)

	_, err := store.UpsertFile(context.Background(), "item-a.json", []byte("a"), "")
	require.NoError(t, err)
	_, err = store.UpsertFile(context.Background(), "item-b.json", []byte("b"), "")
	require.NoError(t, err)

	refs, err := store.ListFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, refs, 2)

	names := []string{refs[0].Name, refs[1].Name}
	assert.ElementsMatch(t, []string{"item-a.json", "item-b.json"}, names)
}

func TestS3_DeleteIsIdempotent(t *testing.T) {
	fake := newFakeS3()
	store := newTestS3Store(fake)

	require.NoError(t, store.DeleteFile(context.Background(), "clipsync/never-existed.json"))
	assert.Equal(t, 1, fake.deletes)
}
