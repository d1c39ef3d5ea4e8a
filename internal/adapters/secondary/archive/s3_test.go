package archive_test

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/arthurdotwork/relay/internal/adapters/secondary/archive"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	pages   [][]string
	putErr  error

	lastContentType string
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}

	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}

	f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)] = body
	f.lastContentType = aws.ToString(params.ContentType)

	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	page := 0
	if params.ContinuationToken != nil {
		_, err := fmt.Sscanf(aws.ToString(params.ContinuationToken), "page-%d", &page)
		if err != nil {
			return nil, err
		}
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(page < len(f.pages)-1)}
	if page < len(f.pages)-1 {
		out.NextContinuationToken = aws.String(fmt.Sprintf("page-%d", page+1))
	}

	if page < len(f.pages) {
		for _, key := range f.pages[page] {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
		}
	}

	return out, nil
}

func TestS3Store_Put(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("it should upload the body under the bucket and key", func(t *testing.T) {
		client := &fakeS3{objects: map[string][]byte{}}
		objects := archive.NewS3StoreWithClient(client, "relay-archive")

		require.NoError(t, objects.Put(ctx, "relay/1-2.jsonl", []byte("{}\n")))
		require.Equal(t, []byte("{}\n"), client.objects["relay-archive/relay/1-2.jsonl"])
		require.Equal(t, "application/x-ndjson", client.lastContentType)
	})

	t.Run("it should return an error if the upload fails", func(t *testing.T) {
		client := &fakeS3{objects: map[string][]byte{}, putErr: fmt.Errorf("error")}
		objects := archive.NewS3StoreWithClient(client, "relay-archive")

		require.Error(t, objects.Put(ctx, "relay/1-2.jsonl", []byte("{}\n")))
	})
}

func TestS3Store_List(t *testing.T) {
	t.Parallel()

	t.Run("it should walk every page", func(t *testing.T) {
		client := &fakeS3{pages: [][]string{
			{"relay/a.jsonl", "relay/b.jsonl"},
			{"relay/c.jsonl"},
		}}
		objects := archive.NewS3StoreWithClient(client, "relay-archive")

		keys, err := objects.List(context.Background(), "relay")
		require.NoError(t, err)
		require.Equal(t, []string{"relay/a.jsonl", "relay/b.jsonl", "relay/c.jsonl"}, keys)
	})
}

func TestNewS3Store(t *testing.T) {
	t.Parallel()

	t.Run("it should build a client for a custom endpoint with static keys", func(t *testing.T) {
		objects, err := archive.NewS3Store(context.Background(), archive.S3Config{
			Bucket:          "relay-archive",
			Region:          "us-east-1",
			Endpoint:        "http://localhost:9000",
			AccessKeyID:     "key",
			SecretAccessKey: "secret",
		})
		require.NoError(t, err)
		require.NotNil(t, objects)
	})
}
