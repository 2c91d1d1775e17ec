package sink

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/docsmith/internal/client/api"
	"github.com/dmitrijs2005/docsmith/internal/client/api/apitest"
	cc "github.com/dmitrijs2005/docsmith/internal/client/config"
	"github.com/dmitrijs2005/docsmith/internal/client/models"
	"github.com/dmitrijs2005/docsmith/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSink_Put(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	s := NewFileSink(dir)

	p1, err := s.Put(context.Background(), "alpha_README.md", "text/markdown", strings.NewReader("# one"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "alpha_README.md"), p1)

	p2, err := s.Put(context.Background(), "alpha_README.md", "text/markdown", strings.NewReader("# two"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "alpha_README-1.md"), p2)

	b, err := os.ReadFile(p1)
	require.NoError(t, err)
	assert.Equal(t, "# one", string(b))
}

func TestFileSink_PutRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	p, err := NewFileSink(dir).Put(context.Background(), "../../escape.md", "", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.md"), p)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("broken") }

func TestFileSink_PutRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	_, err := NewFileSink(dir).Put(context.Background(), "x.md", "", errReader{})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type fakeS3 struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Sink_Put(t *testing.T) {
	fake := &fakeS3{}
	s := &S3Sink{
		client: fake,
		bucket: "docs",
		now:    func() time.Time { return time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC) },
	}

	loc, err := s.Put(context.Background(), "alpha_README.md", "text/markdown", strings.NewReader("# alpha"))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^s3://docs/readmes/2025/3/9/[0-9a-f-]{36}-alpha_README\.md$`), loc)
	assert.Equal(t, "docs", aws.ToString(fake.in.Bucket))
	assert.Equal(t, "text/markdown", aws.ToString(fake.in.ContentType))
	assert.Equal(t, "# alpha", fake.body)
	assert.Equal(t, "s3://docs/"+aws.ToString(fake.in.Key), loc)
}

func TestS3Sink_PutError(t *testing.T) {
	s := &S3Sink{client: &fakeS3{err: errors.New("access denied")}, bucket: "docs", now: time.Now}

	_, err := s.Put(context.Background(), "a.md", "", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNewS3Sink(t *testing.T) {
	s, err := NewS3Sink(context.Background(), cc.S3Config{
		Bucket:    "docs",
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)
	assert.Equal(t, "docs", s.bucket)
	assert.NotNil(t, s.client)
}

func TestReadmeSaver_AsGatewayOpener(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("A", "a@b.com", "x")
	tok := srv.IssueToken("a@b.com")
	id := srv.AddProject(models.Project{ProjectName: "alpha", ReadmeContent: "# alpha\n"})

	gw := api.NewGateway(srv.BaseURL(), api.WithTokenSource(api.TokenFunc(func() string { return tok })))
	dir := t.TempDir()
	saver := NewReadmeSaver(gw, NewFileSink(dir), logging.Nop())
	gw.SetOpener(saver)

	res, err := gw.DownloadReadme(context.Background(), string(id))
	require.NoError(t, err)
	assert.True(t, res.Tracked)

	want := filepath.Join(dir, "alpha_README.md")
	assert.Equal(t, want, saver.LastLocation())
	b, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "# alpha\n", string(b))
}

func TestReadmeSaver_FetchError(t *testing.T) {
	srv := apitest.New(t)
	gw := api.NewGateway(srv.BaseURL())
	saver := NewReadmeSaver(gw, NewFileSink(t.TempDir()), logging.Nop())

	err := saver.Open(context.Background(), gw.DownloadURL("1"))
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Empty(t, saver.LastLocation())
}
