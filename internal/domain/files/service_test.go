package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/resthub/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/resthub/internal/shared/errs"
	"github.com/GriffinCanCode/resthub/internal/shared/paths"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	base := t.TempDir()
	guard, err := paths.NewGuard(base)
	require.NoError(t, err)
	return NewService(guard), base
}

func TestCreateThenGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "a.txt"))

	content, err := svc.Get(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "New file", string(content))
}

func TestCreateExistingIsConflict(t *testing.T) {
	svc, base := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "a.txt"))
	require.NoError(t, svc.Update(ctx, "a.txt", []byte("edited")))

	err := svc.Create(ctx, "a.txt")
	require.Error(t, err)
	assert.Equal(t, errs.Conflict, errs.KindOf(err))
	assert.Equal(t, MsgAlreadyExists, errs.Message(err))

	data, err := os.ReadFile(filepath.Join(base, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "edited", string(data))
}

func TestCreateOverDirectoryIsConflict(t *testing.T) {
	svc, base := newTestService(t)
	require.NoError(t, os.Mkdir(filepath.Join(base, "dir"), 0o755))

	err := svc.Create(context.Background(), "dir")
	assert.Equal(t, errs.Conflict, errs.KindOf(err))
}

func TestUpdateMissingIsNotFound(t *testing.T) {
	svc, base := newTestService(t)

	err := svc.Update(context.Background(), "missing.txt", []byte("x"))
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))

	_, statErr := os.Stat(filepath.Join(base, "missing.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCheck(t *testing.T) {
	svc, base := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, "a.txt"))
	require.NoError(t, os.Mkdir(filepath.Join(base, "dir"), 0o755))

	assert.NoError(t, svc.Check(ctx, "a.txt"))
	assert.Equal(t, errs.NotFound, errs.KindOf(svc.Check(ctx, "missing.txt")))
	assert.Equal(t, errs.NotFound, errs.KindOf(svc.Check(ctx, "dir")))
	assert.Equal(t, errs.InvalidInput, errs.KindOf(svc.Check(ctx, "../x")))
}

func TestUpdateOverwrites(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "a.txt"))
	require.NoError(t, svc.Update(ctx, "a.txt", []byte("xy")))

	content, err := svc.Get(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "xy", string(content))
}

func TestDeleteThenGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "a.txt"))
	require.NoError(t, svc.Delete(ctx, "a.txt"))

	_, err := svc.Get(ctx, "a.txt")
	assert.Equal(t, errs.NotFound, errs.KindOf(err))

	err = svc.Delete(ctx, "a.txt")
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

func TestDirectoriesAreNotFiles(t *testing.T) {
	svc, base := newTestService(t)
	ctx := context.Background()
	require.NoError(t, os.Mkdir(filepath.Join(base, "dir"), 0o755))

	_, err := svc.Get(ctx, "dir")
	assert.Equal(t, errs.NotFound, errs.KindOf(err))

	err = svc.Update(ctx, "dir", []byte("x"))
	assert.Equal(t, errs.NotFound, errs.KindOf(err))

	err = svc.Delete(ctx, "dir")
	assert.Equal(t, errs.NotFound, errs.KindOf(err))

	_, err = os.Stat(filepath.Join(base, "dir"))
	assert.NoError(t, err)
}

func TestListSortedRegularFilesOnly(t *testing.T) {
	svc, base := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "b.txt"))
	require.NoError(t, svc.Create(ctx, "a.txt"))
	require.NoError(t, os.Mkdir(filepath.Join(base, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "sub", "nested.txt"), []byte("n"), 0o644))

	names, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, names)
}

func TestListEmptyDirectory(t *testing.T) {
	svc, _ := newTestService(t)

	names, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestListFollowsFileSymlinks(t *testing.T) {
	svc, base := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "target.txt"))
	require.NoError(t, os.Symlink(filepath.Join(base, "target.txt"), filepath.Join(base, "link.txt")))
	require.NoError(t, os.Symlink(filepath.Join(base, "nowhere"), filepath.Join(base, "dangling.txt")))

	names, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"link.txt", "target.txt"}, names)
}

func TestListPattern(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"a.txt", "b.md", "c.txt"} {
		require.NoError(t, svc.Create(ctx, name))
	}

	names, err := svc.List(ctx, "*.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "c.txt"}, names)

	_, err = svc.List(ctx, "[")
	assert.Equal(t, errs.InvalidInput, errs.KindOf(err))
}

func TestListUnreadableBaseIsInternal(t *testing.T) {
	svc, base := newTestService(t)
	require.NoError(t, os.RemoveAll(base))

	_, err := svc.List(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, errs.Internal, errs.KindOf(err))
}

func TestInvalidNamesAreRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"../../etc/passwd", "..", "", "/etc/passwd"} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Get(ctx, name)
			assert.Equal(t, errs.InvalidInput, errs.KindOf(err))

			assert.Equal(t, errs.InvalidInput, errs.KindOf(svc.Create(ctx, name)))
			assert.Equal(t, errs.InvalidInput, errs.KindOf(svc.Update(ctx, name, []byte("x"))))
			assert.Equal(t, errs.InvalidInput, errs.KindOf(svc.Delete(ctx, name)))

			_, err = svc.Stat(ctx, name)
			assert.Equal(t, errs.InvalidInput, errs.KindOf(err))
		})
	}
}

func TestCreateInMissingSubdirectoryIsInternal(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Create(context.Background(), "nope/a.txt")
	assert.Equal(t, errs.Internal, errs.KindOf(err))
	assert.Equal(t, MsgCreateFailed, errs.Message(err))
}

func TestGetThroughFileComponentIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, "a.txt"))

	_, err := svc.Get(ctx, "a.txt/b")
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

func TestStat(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, "a.txt"))

	info, err := svc.Stat(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", info.Name)
	assert.Equal(t, int64(len(DefaultContent)), info.Size)
	assert.Contains(t, info.MimeType, "text/plain")
	assert.False(t, info.Modified.IsZero())

	_, err = svc.Stat(ctx, "missing.txt")
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

func TestWithDefaultContent(t *testing.T) {
	svc, _ := newTestService(t)
	svc.WithDefaultContent("hello")
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "a.txt"))
	content, err := svc.Get(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestOperationsRecordMetrics(t *testing.T) {
	svc, _ := newTestService(t)
	metrics := monitoring.NewMetrics()
	svc.WithMetrics(metrics)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "a.txt"))
	_ = svc.Create(ctx, "a.txt")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.OperationsTotal.WithLabelValues("file", "create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.OperationsTotal.WithLabelValues("file", "create", "conflict")))
}
