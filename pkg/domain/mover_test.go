package domain_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yurykabanov/organizer/pkg/domain"
	"github.com/yurykabanov/organizer/pkg/transfer"
)

// region passRecorderMock
type passRecorderMock struct {
	mock.Mock
}

func (m *passRecorderMock) RecordPass(ctx context.Context, pass domain.Pass) error {
	args := m.Called(ctx, pass)
	return args.Error(0)
}

// endregion

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Out = io.Discard

	return logger
}

var (
	old    = time.Now().Add(-72 * time.Hour)
	recent = time.Now()
)

type fixture struct {
	t      *testing.T
	source string
	docs   string
	images string
}

func newFixture(t *testing.T) *fixture {
	root := t.TempDir()

	return &fixture{
		t:      t,
		source: filepath.Join(root, "desktop"),
		docs:   filepath.Join(root, "docs"),
		images: filepath.Join(root, "images"),
	}
}

func (f *fixture) job(policy domain.ConflictPolicy) domain.Job {
	require.NoError(f.t, os.MkdirAll(f.source, 0755))

	return domain.Job{
		Name:            "desktop",
		SourceDirectory: f.source,
		Age:             24 * time.Hour,
		Rules: domain.NewRuleSet(
			domain.TargetRule{TargetDirectory: f.docs, FileTypes: []string{"txt", ".pdf", "tar.gz"}},
			domain.TargetRule{TargetDirectory: f.images, FileTypes: []string{"png", "jpg"}},
		),
		Conflict: policy,
		Strategy: domain.StrategyOnce,
	}
}

func (f *fixture) write(path, content string, atime, mtime time.Time) {
	f.t.Helper()

	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(f.t, os.WriteFile(path, []byte(content), 0644))
	require.NoError(f.t, os.Chtimes(path, atime, mtime))
}

func (f *fixture) read(path string) string {
	f.t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(f.t, err)

	return string(data)
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	return names
}

func newMover() *domain.Mover {
	return domain.NewMover(discardLogger(), transfer.New(), nil)
}

func TestMover_Run_MovesEligibleFile(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictRename)

	f.write(filepath.Join(f.source, "notes.txt"), "some notes", old, old)
	f.write(filepath.Join(f.source, "photo.png"), "\x89PNG", old, old)

	pass, err := newMover().Run(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, 2, pass.Moved)
	assert.Equal(t, "desktop", pass.Job)
	assert.NotEmpty(t, pass.Id)
	assert.Len(t, pass.Moves, 2)

	assert.Empty(t, listDir(t, f.source))
	assert.Equal(t, "some notes", f.read(filepath.Join(f.docs, "notes.txt")))
	assert.Equal(t, "\x89PNG", f.read(filepath.Join(f.images, "photo.png")))
}

func TestMover_Run_LeavesUnmatchedFiles(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictRename)

	f.write(filepath.Join(f.source, "program.exe"), "MZ", old, old)
	f.write(filepath.Join(f.source, "README"), "readme", old, old)
	f.write(filepath.Join(f.source, ".txt"), "hidden", old, old)

	pass, err := newMover().Run(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, 0, pass.Relocated())
	assert.Equal(t, []string{".txt", "README", "program.exe"}, listDir(t, f.source))
	assert.Equal(t, "MZ", f.read(filepath.Join(f.source, "program.exe")))
}

func TestMover_Run_LeavesRecentFiles(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictRename)

	f.write(filepath.Join(f.source, "fresh.txt"), "fresh", recent, old)

	pass, err := newMover().Run(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, 0, pass.Relocated())
	assert.Equal(t, []string{"fresh.txt"}, listDir(t, f.source))
}

func TestMover_Run_ZeroAgeMovesEverythingAccessedBeforePass(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictRename)
	job.Age = 0

	f.write(filepath.Join(f.source, "a.txt"), "a", time.Now().Add(-time.Second), old)

	pass, err := newMover().Run(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, 1, pass.Moved)
}

// Matching is case-sensitive on purpose; "TXT" is a different file type.
func TestMover_Run_CaseSensitiveFileTypes(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictRename)

	f.write(filepath.Join(f.source, "REPORT.TXT"), "upper", old, old)

	pass, err := newMover().Run(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, 0, pass.Relocated())
	assert.Equal(t, []string{"REPORT.TXT"}, listDir(t, f.source))
}

func TestMover_Run_MultiDotFileType(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictRename)

	f.write(filepath.Join(f.source, "backup.tar.gz"), "archive", old, old)

	_, err := newMover().Run(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, []string{"backup.tar.gz"}, listDir(t, f.docs))
}

func TestMover_Run_IgnoresDirectories(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictRename)

	require.NoError(t, os.MkdirAll(filepath.Join(f.source, "folder.txt"), 0755))
	f.write(filepath.Join(f.source, "nested", "deep.txt"), "deep", old, old)

	pass, err := newMover().Run(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, 0, pass.Relocated())
	assert.Equal(t, []string{"folder.txt", "nested"}, listDir(t, f.source))
	assert.Equal(t, []string{"deep.txt"}, listDir(t, filepath.Join(f.source, "nested")))
}

func TestMover_Run_IgnorePatterns(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictRename)
	job.Ignore = []string{"draft*", "*.keep.txt"}

	f.write(filepath.Join(f.source, "draft-1.txt"), "d", old, old)
	f.write(filepath.Join(f.source, "list.keep.txt"), "k", old, old)
	f.write(filepath.Join(f.source, "final.txt"), "f", old, old)

	pass, err := newMover().Run(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, 1, pass.Moved)
	assert.Equal(t, []string{"draft-1.txt", "list.keep.txt"}, listDir(t, f.source))
	assert.Equal(t, []string{"final.txt"}, listDir(t, f.docs))
}

func TestMover_Run_FirstDeclaredRuleWins(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictRename)
	job.Rules = domain.NewRuleSet(
		domain.TargetRule{TargetDirectory: f.images, FileTypes: []string{"txt"}},
		domain.TargetRule{TargetDirectory: f.docs, FileTypes: []string{"txt"}},
	)

	f.write(filepath.Join(f.source, "a.txt"), "a", old, old)

	_, err := newMover().Run(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, listDir(t, f.images))
	assert.Empty(t, listDir(t, f.docs))
}

func TestMover_Run_SkipsTargetEqualToSource(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictRename)
	job.Rules = domain.NewRuleSet(
		domain.TargetRule{TargetDirectory: f.source + string(filepath.Separator), FileTypes: []string{"txt"}},
	)

	f.write(filepath.Join(f.source, "a.txt"), "a", old, old)

	pass, err := newMover().Run(context.Background(), job)

	require.NoError(t, err)
	assert.Empty(t, pass.Moves)
	assert.Equal(t, []string{"a.txt"}, listDir(t, f.source))
}

func TestMover_Run_Rename(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictRename)
	mover := newMover()

	f.write(filepath.Join(f.docs, "report.txt"), "existing", old, old)

	f.write(filepath.Join(f.source, "report.txt"), "second", old, old)
	pass, err := mover.Run(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 1, pass.Renamed)
	assert.Equal(t, filepath.Join(f.docs, "report_1.txt"), pass.Moves[0].Target)

	f.write(filepath.Join(f.source, "report.txt"), "third", old, old)
	_, err = mover.Run(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, []string{"report.txt", "report_1.txt", "report_2.txt"}, listDir(t, f.docs))
	assert.Equal(t, "existing", f.read(filepath.Join(f.docs, "report.txt")))
	assert.Equal(t, "second", f.read(filepath.Join(f.docs, "report_1.txt")))
	assert.Equal(t, "third", f.read(filepath.Join(f.docs, "report_2.txt")))
	assert.Empty(t, listDir(t, f.source))
}

func TestMover_Run_RenameKeepsMultiDotFileType(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictRename)

	f.write(filepath.Join(f.docs, "backup.tar.gz"), "existing", old, old)
	f.write(filepath.Join(f.source, "backup.tar.gz"), "incoming", old, old)

	pass, err := newMover().Run(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, 1, pass.Renamed)
	assert.Equal(t, []string{"backup.tar.gz", "backup_1.tar.gz"}, listDir(t, f.docs))
	assert.Equal(t, "incoming", f.read(filepath.Join(f.docs, "backup_1.tar.gz")))
}

func TestMover_Run_RenameFillsFirstGap(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictRename)

	f.write(filepath.Join(f.docs, "report.txt"), "existing", old, old)
	f.write(filepath.Join(f.docs, "report_2.txt"), "two", old, old)
	f.write(filepath.Join(f.source, "report.txt"), "incoming", old, old)

	_, err := newMover().Run(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, "incoming", f.read(filepath.Join(f.docs, "report_1.txt")))
}

func TestMover_Run_Skip(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictSkip)

	f.write(filepath.Join(f.docs, "report.txt"), "existing", old, old)
	f.write(filepath.Join(f.source, "report.txt"), "incoming", old, recent)

	pass, err := newMover().Run(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, 1, pass.Skipped)
	assert.Equal(t, "incoming", f.read(filepath.Join(f.source, "report.txt")))
	assert.Equal(t, "existing", f.read(filepath.Join(f.docs, "report.txt")))
}

func TestMover_Run_Overwrite(t *testing.T) {
	older := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	testCases := []struct {
		name          string
		sourceModTime time.Time
		destModTime   time.Time
		expected      string
		sourceLeft    bool
	}{
		{"source is newer", newer, older, "incoming", false},
		{"source is older", older, newer, "existing", true},
		{"same modification time", older, older, "existing", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			job := f.job(domain.ConflictOverwrite)

			f.write(filepath.Join(f.docs, "report.txt"), "existing", old, tc.destModTime)
			f.write(filepath.Join(f.source, "report.txt"), "incoming", old, tc.sourceModTime)

			pass, err := newMover().Run(context.Background(), job)
			require.NoError(t, err)

			assert.Equal(t, tc.expected, f.read(filepath.Join(f.docs, "report.txt")))
			assert.Equal(t, []string{"report.txt"}, listDir(t, f.docs))

			if tc.sourceLeft {
				assert.Equal(t, 1, pass.Skipped)
				assert.Equal(t, []string{"report.txt"}, listDir(t, f.source))
			} else {
				assert.Equal(t, 1, pass.Overwritten)
				assert.Empty(t, listDir(t, f.source))
			}
		})
	}
}

func TestMover_Run_OverwriteKeepsExistingDirectory(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictOverwrite)

	require.NoError(t, os.MkdirAll(filepath.Join(f.docs, "report.txt"), 0755))
	f.write(filepath.Join(f.source, "report.txt"), "incoming", old, recent)

	pass, err := newMover().Run(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, 1, pass.Skipped)
	assert.Equal(t, []string{"report.txt"}, listDir(t, f.source))
}

func TestMover_Run_Idempotent(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictRename)
	mover := newMover()

	f.write(filepath.Join(f.source, "a.txt"), "a", old, old)
	f.write(filepath.Join(f.source, "b.png"), "b", old, old)
	f.write(filepath.Join(f.source, "c.exe"), "c", old, old)
	f.write(filepath.Join(f.source, "d.txt"), "d", recent, old)

	first, err := mover.Run(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Relocated())

	source, docs, images := listDir(t, f.source), listDir(t, f.docs), listDir(t, f.images)

	second, err := mover.Run(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, 0, second.Relocated())
	assert.Empty(t, second.Moves)
	assert.Equal(t, source, listDir(t, f.source))
	assert.Equal(t, docs, listDir(t, f.docs))
	assert.Equal(t, images, listDir(t, f.images))
}

func TestMover_Run_SourceUnavailable(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictRename)
	job.SourceDirectory = filepath.Join(f.source, "missing")

	pass, err := newMover().Run(context.Background(), job)

	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.NotEmpty(t, pass.Error)
	assert.Empty(t, pass.Moves)
}

func TestMover_Run_RecordsPass(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictRename)

	f.write(filepath.Join(f.source, "a.txt"), "a", old, old)

	recorder := &passRecorderMock{}
	recorder.On("RecordPass", mock.Anything, mock.MatchedBy(func(p domain.Pass) bool {
		return p.Job == "desktop" && p.Moved == 1 && !p.FinishedAt.Before(p.StartedAt)
	})).Return(nil).Once()

	_, err := domain.NewMover(discardLogger(), transfer.New(), recorder).Run(context.Background(), job)

	require.NoError(t, err)
	recorder.AssertExpectations(t)
}

func TestMover_Run_Cancelled(t *testing.T) {
	f := newFixture(t)
	job := f.job(domain.ConflictRename)

	f.write(filepath.Join(f.source, "a.txt"), "a", old, old)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	recorder := &passRecorderMock{}
	recorder.On("RecordPass", mock.Anything, mock.AnythingOfType("domain.Pass")).Return(nil).Once()

	_, err := domain.NewMover(discardLogger(), transfer.New(), recorder).Run(ctx, job)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a.txt"}, listDir(t, f.source))
	recorder.AssertExpectations(t)
}
