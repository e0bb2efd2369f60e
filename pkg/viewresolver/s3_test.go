package viewresolver_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mobileview/pkg/viewresolver"
)

// MockS3Client is a mock implementation of the S3Client interface
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.ListObjectsV2Output), args.Error(1)
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func objects(keys ...string) []types.Object {
	out := make([]types.Object, len(keys))
	for i, k := range keys {
		out[i] = types.Object{Key: aws.String(k)}
	}
	return out
}

func listInput(prefix string, token *string) any {
	return mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.Bucket) == "templates" &&
			aws.ToString(in.Prefix) == prefix &&
			aws.ToString(in.ContinuationToken) == aws.ToString(token)
	})
}

func newS3Store(t *testing.T, client *MockS3Client, roots ...string) *viewresolver.S3Store {
	t.Helper()
	store, err := viewresolver.NewS3Store(context.Background(), viewresolver.S3Config{
		Bucket: "templates",
		Region: "us-east-1",
		Roots:  roots,
	}, viewresolver.WithS3Client(client))
	require.NoError(t, err)
	return store
}

func TestNewS3Store(t *testing.T) {
	t.Parallel()

	t.Run("requires bucket", func(t *testing.T) {
		_, err := viewresolver.NewS3Store(context.Background(), viewresolver.S3Config{Roots: []string{"views"}})
		require.ErrorIs(t, err, viewresolver.ErrInvalidSearchPath)
	})

	t.Run("requires roots", func(t *testing.T) {
		_, err := viewresolver.NewS3Store(context.Background(), viewresolver.S3Config{Bucket: "b"},
			viewresolver.WithS3Client(&MockS3Client{}))
		require.ErrorIs(t, err, viewresolver.ErrInvalidSearchPath)
	})

	t.Run("rejects parent references", func(t *testing.T) {
		_, err := viewresolver.NewS3Store(context.Background(), viewresolver.S3Config{Bucket: "b", Roots: []string{"views/../secret"}},
			viewresolver.WithS3Client(&MockS3Client{}))
		require.ErrorIs(t, err, viewresolver.ErrInvalidSearchPath)
	})

	t.Run("normalizes roots", func(t *testing.T) {
		store := newS3Store(t, &MockS3Client{}, "/views/", "views", "theme")
		assert.Equal(t, []string{"views", "theme"}, store.Roots())
	})
}

func TestS3Store_Search(t *testing.T) {
	t.Parallel()

	t.Run("matches in candidate order across pages", func(t *testing.T) {
		client := &MockS3Client{}
		client.On("ListObjectsV2", mock.Anything, listInput("views/users/", nil)).Return(&s3.ListObjectsV2Output{
			Contents:              objects("views/users/", "views/users/show.html.tmpl", "views/users/index.html.tmpl"),
			IsTruncated:           aws.Bool(true),
			NextContinuationToken: aws.String("page2"),
		}, nil).Once()
		client.On("ListObjectsV2", mock.Anything, listInput("views/users/", aws.String("page2"))).Return(&s3.ListObjectsV2Output{
			Contents:    objects("views/users/show.mobile.tmpl"),
			IsTruncated: aws.Bool(false),
		}, nil).Once()
		client.On("ListObjectsV2", mock.Anything, listInput("theme/users/", nil)).Return(&s3.ListObjectsV2Output{
			Contents: objects("theme/users/show.mobile.tmpl"),
		}, nil).Once()

		store := newS3Store(t, client, "views", "theme")
		got, err := store.Search(context.Background(), "show", "users", false, details("mobile", "html"))
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "views/users/show.mobile.tmpl", got[0].Identifier)
		assert.Equal(t, "views/users/show.html.tmpl", got[1].Identifier)
		assert.Equal(t, "theme/users/show.mobile.tmpl", got[2].Identifier)
		assert.Equal(t, "mobile", got[0].Format)

		client.AssertExpectations(t)
	})

	t.Run("empty listing", func(t *testing.T) {
		client := &MockS3Client{}
		client.On("ListObjectsV2", mock.Anything, listInput("views/", nil)).Return(&s3.ListObjectsV2Output{}, nil).Once()

		store := newS3Store(t, client, "views")
		got, err := store.Search(context.Background(), "index", "", false, details("html"))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("access denied", func(t *testing.T) {
		client := &MockS3Client{}
		client.On("ListObjectsV2", mock.Anything, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}).Once()

		store := newS3Store(t, client, "views")
		_, err := store.Search(context.Background(), "index", "", false, details("html"))
		require.ErrorIs(t, err, viewresolver.ErrAccessDenied)
	})

	t.Run("missing bucket", func(t *testing.T) {
		client := &MockS3Client{}
		client.On("ListObjectsV2", mock.Anything, mock.Anything).
			Return(nil, &types.NoSuchBucket{}).Once()

		store := newS3Store(t, client, "views")
		_, err := store.Search(context.Background(), "index", "", false, details("html"))
		require.ErrorIs(t, err, viewresolver.ErrBucketNotFound)
	})

	t.Run("throttled", func(t *testing.T) {
		client := &MockS3Client{}
		client.On("ListObjectsV2", mock.Anything, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "SlowDown"}).Once()

		store := newS3Store(t, client, "views")
		_, err := store.Search(context.Background(), "index", "", false, details("html"))
		require.ErrorIs(t, err, viewresolver.ErrStoreUnavailable)
	})
}

func TestS3Store_Open(t *testing.T) {
	t.Parallel()

	client := &MockS3Client{}
	client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Key) == "views/home.html.tmpl"
	})).Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("home"))}, nil).Once()
	client.On("GetObject", mock.Anything, mock.Anything).Return(nil, &types.NoSuchKey{}).Once()

	store := newS3Store(t, client, "views")

	rc, err := store.Open(context.Background(), viewresolver.Artifact{Identifier: "views/home.html.tmpl"})
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "home", string(body))

	_, err = store.Open(context.Background(), viewresolver.Artifact{Identifier: "views/missing.tmpl"})
	require.ErrorIs(t, err, viewresolver.ErrOpenFailed)
	require.ErrorIs(t, err, viewresolver.ErrTemplateNotFound)
}
