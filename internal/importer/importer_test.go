package importer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicatlas/artcatalog/constants"
	"github.com/civicatlas/artcatalog/internal/common"
	"github.com/civicatlas/artcatalog/internal/dedupe"
	"github.com/civicatlas/artcatalog/internal/entity"
)

type fakeChecker struct {
	perRecord map[string]*dedupe.MatchResult
	err       error
	calls     int
}

func (f *fakeChecker) CheckRecord(_ context.Context, record *entity.ImportRecord) (*dedupe.MatchResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if m, ok := f.perRecord[record.SourceID]; ok {
		return m, nil
	}
	return &dedupe.MatchResult{}, nil
}

type fakeSubmissionStore struct {
	created    []*entity.Submission
	approved   []uuid.UUID
	createErr  error
	approveErr error
}

func (f *fakeSubmissionStore) Create(_ context.Context, submission *entity.Submission) (*entity.Submission, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *submission
	out.ID = uuid.New()
	now := time.Now().UTC()
	out.CreatedAt, out.UpdatedAt = now, now
	f.created = append(f.created, &out)
	return &out, nil
}

func (f *fakeSubmissionStore) Approve(_ context.Context, id uuid.UUID, _, _ string) (uuid.UUID, error) {
	if f.approveErr != nil {
		return uuid.Nil, f.approveErr
	}
	f.approved = append(f.approved, id)
	return uuid.New(), nil
}

type fakeArtistDirectory struct {
	byName    map[string]*entity.Artist
	creates   int
	findErr   error
	createErr error
}

func (f *fakeArtistDirectory) FindByName(_ context.Context, name string) (*entity.Artist, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if a, ok := f.byName[strings.ToLower(name)]; ok {
		return a, nil
	}
	return nil, nil
}

func (f *fakeArtistDirectory) Create(_ context.Context, artist *entity.Artist) (*entity.Artist, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *artist
	out.ID = uuid.New()
	f.creates++
	if f.byName == nil {
		f.byName = make(map[string]*entity.Artist)
	}
	f.byName[strings.ToLower(artist.Name)] = &out
	return &out, nil
}

type auditCall struct {
	entityType string
	entityID   string
	action     string
	metadata   map[string]any
}

type fakeAuditSink struct {
	events []auditCall
	err    error
}

func (f *fakeAuditSink) Record(_ context.Context, entityType, entityID, action string, metadata map[string]any) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, auditCall{entityType, entityID, action, metadata})
	return nil
}

type testDeps struct {
	checker     *fakeChecker
	submissions *fakeSubmissionStore
	artists     *fakeArtistDirectory
	audit       *fakeAuditSink
}

func newTestImporter(config Config, deps *testDeps) *BatchImporter {
	if deps.checker == nil {
		deps.checker = &fakeChecker{}
	}
	if deps.submissions == nil {
		deps.submissions = &fakeSubmissionStore{}
	}
	if deps.artists == nil {
		deps.artists = &fakeArtistDirectory{}
	}
	if deps.audit == nil {
		deps.audit = &fakeAuditSink{}
	}
	return NewBatchImporter(config, deps.checker, deps.submissions, deps.artists, deps.audit, nil)
}

func testConfig() Config {
	return Config{
		BatchSize:            100,
		DuplicateCheckRadius: 500,
		ImporterIdentity:     "importer-test",
		SourceName:           "osm summer load",
		SkipDuplicates:       true,
		CreateArtists:        true,
		StorageTimeout:       time.Second,
	}
}

func validRecord(sourceID, title string) entity.ImportRecord {
	return entity.ImportRecord{
		SourceID:   sourceID,
		SourceType: string(constants.SourceOSMImport),
		Title:      title,
		ArtistName: "Maya Delgado",
		Lat:        45.5231,
		Lon:        -122.6765,
	}
}

func TestRunStagesSubmissions(t *testing.T) {
	deps := &testDeps{}
	imp := newTestImporter(testConfig(), deps)

	records := []entity.ImportRecord{
		validRecord("node/1", "Bronze Horse"),
		validRecord("node/2", "Waterfront Mural"),
		validRecord("node/3", "Stone Archway"),
	}

	result, err := imp.Run(context.Background(), records)

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalRecords)
	assert.Equal(t, 3, result.SuccessfulImports)
	assert.Zero(t, result.FailedImports)
	assert.Zero(t, result.DuplicatesSkipped)
	assert.Len(t, result.CreatedSubmissionIDs, 3)
	assert.Empty(t, result.CreatedArtworkIDs)
	assert.Empty(t, result.Errors)

	// submissions are staged pending, in input order, by the session identity
	require.Len(t, deps.submissions.created, 3)
	assert.Equal(t, "node/1", deps.submissions.created[0].SourceID)
	assert.Equal(t, "node/3", deps.submissions.created[2].SourceID)
	for _, s := range deps.submissions.created {
		assert.Equal(t, string(constants.SubmissionStatusPending), s.Status)
		assert.Equal(t, "importer-test", s.SubmittedBy)
		assert.Equal(t, "osm summer load", s.SourceName)
	}
	assert.Empty(t, deps.submissions.approved)
}

func TestRunAutoApprove(t *testing.T) {
	deps := &testDeps{}
	config := testConfig()
	config.AutoApprove = true
	imp := newTestImporter(config, deps)

	result, err := imp.Run(context.Background(), []entity.ImportRecord{
		validRecord("node/1", "Bronze Horse"),
		validRecord("node/2", "Waterfront Mural"),
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessfulImports)
	assert.Len(t, result.CreatedArtworkIDs, 2)
	require.Len(t, deps.submissions.approved, 2)
	assert.Equal(t, result.CreatedSubmissionIDs, deps.submissions.approved)
}

func TestRunIsolatesInvalidRecords(t *testing.T) {
	deps := &testDeps{}
	imp := newTestImporter(testConfig(), deps)

	noTitle := validRecord("api-7", "Bronze Horse")
	noTitle.Title = "   "
	noCoords := validRecord("api-8", "Waterfront Mural")
	noCoords.Lat = 91.5
	noSourceID := validRecord("", "Stone Archway")

	result, err := imp.Run(context.Background(), []entity.ImportRecord{
		noTitle,
		validRecord("api-9", "Rusty Gears"),
		noCoords,
		noSourceID,
		validRecord("api-10", "Glass Garden"),
	})

	require.NoError(t, err)
	assert.Equal(t, 5, result.TotalRecords)
	assert.Equal(t, 2, result.SuccessfulImports)
	assert.Equal(t, 3, result.FailedImports)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "api-7")
	assert.Contains(t, result.Errors[1], "api-8")
	assert.Contains(t, result.Errors[2], "(no source id)")
	// invalid records never reach the duplicate check
	assert.Equal(t, 2, deps.checker.calls)
}

func TestRunSkipsDuplicates(t *testing.T) {
	existing := uuid.New()
	deps := &testDeps{checker: &fakeChecker{perRecord: map[string]*dedupe.MatchResult{
		"node/2": {IsDuplicate: true, ArtworkID: existing, Confidence: 0.95, DistanceMeters: 4.2},
	}}}
	imp := newTestImporter(testConfig(), deps)

	result, err := imp.Run(context.Background(), []entity.ImportRecord{
		validRecord("node/1", "Bronze Horse"),
		validRecord("node/2", "Bronze Horse"),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessfulImports)
	assert.Equal(t, 1, result.DuplicatesSkipped)
	assert.Zero(t, result.FailedImports)
	require.Len(t, deps.submissions.created, 1)
	assert.Equal(t, "node/1", deps.submissions.created[0].SourceID)
}

func TestRunWithDuplicateCheckDisabled(t *testing.T) {
	deps := &testDeps{checker: &fakeChecker{perRecord: map[string]*dedupe.MatchResult{
		"node/1": {IsDuplicate: true, Confidence: 1.0},
	}}}
	config := testConfig()
	config.SkipDuplicates = false
	imp := newTestImporter(config, deps)

	result, err := imp.Run(context.Background(), []entity.ImportRecord{
		validRecord("node/1", "Bronze Horse"),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessfulImports)
	assert.Zero(t, result.DuplicatesSkipped)
	assert.Zero(t, deps.checker.calls)
}

func TestRunDryRun(t *testing.T) {
	deps := &testDeps{}
	config := testConfig()
	config.DryRun = true
	config.AutoApprove = true
	imp := newTestImporter(config, deps)

	result, err := imp.Run(context.Background(), []entity.ImportRecord{
		validRecord("node/1", "Bronze Horse"),
		validRecord("node/2", "Waterfront Mural"),
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessfulImports)
	assert.Empty(t, result.CreatedSubmissionIDs)
	assert.Empty(t, result.CreatedArtworkIDs)
	assert.Empty(t, result.CreatedArtistIDs)
	assert.Empty(t, deps.submissions.created)
	assert.Zero(t, deps.artists.creates)
	// zero storage mutation includes the audit trail
	assert.Empty(t, deps.audit.events)
	// the duplicate check still ran
	assert.Equal(t, 2, deps.checker.calls)
}

func TestRunStorageFailureIsPerRecord(t *testing.T) {
	deps := &testDeps{submissions: &fakeSubmissionStore{createErr: errors.New("connection reset")}}
	imp := newTestImporter(testConfig(), deps)

	result, err := imp.Run(context.Background(), []entity.ImportRecord{
		validRecord("node/1", "Bronze Horse"),
		validRecord("node/2", "Waterfront Mural"),
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.FailedImports)
	assert.Zero(t, result.SuccessfulImports)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "node/1")
	assert.Contains(t, result.Errors[0], "connection reset")
}

func TestRunDuplicateCheckFailureIsPerRecord(t *testing.T) {
	deps := &testDeps{checker: &fakeChecker{err: errors.New("query timeout")}}
	imp := newTestImporter(testConfig(), deps)

	result, err := imp.Run(context.Background(), []entity.ImportRecord{
		validRecord("node/1", "Bronze Horse"),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.FailedImports)
	assert.Empty(t, deps.submissions.created)
}

func TestRunArtistResolution(t *testing.T) {
	t.Run("creates a missing artist once and reuses it", func(t *testing.T) {
		deps := &testDeps{}
		imp := newTestImporter(testConfig(), deps)

		first := validRecord("node/1", "Bronze Horse")
		second := validRecord("node/2", "Bronze Horse Study")
		second.ArtistName = "maya delgado" // same artist, different casing

		result, err := imp.Run(context.Background(), []entity.ImportRecord{first, second})

		require.NoError(t, err)
		assert.Equal(t, 1, deps.artists.creates)
		assert.Len(t, result.CreatedArtistIDs, 1)
		require.Len(t, deps.submissions.created, 2)
		require.NotNil(t, deps.submissions.created[0].ArtistID)
		require.NotNil(t, deps.submissions.created[1].ArtistID)
		assert.Equal(t, *deps.submissions.created[0].ArtistID, *deps.submissions.created[1].ArtistID)
	})

	t.Run("reuses an existing artist", func(t *testing.T) {
		known := &entity.Artist{ID: uuid.New(), Name: "Maya Delgado"}
		deps := &testDeps{artists: &fakeArtistDirectory{
			byName: map[string]*entity.Artist{"maya delgado": known},
		}}
		imp := newTestImporter(testConfig(), deps)

		result, err := imp.Run(context.Background(), []entity.ImportRecord{validRecord("node/1", "Bronze Horse")})

		require.NoError(t, err)
		assert.Zero(t, deps.artists.creates)
		assert.Empty(t, result.CreatedArtistIDs)
		require.NotNil(t, deps.submissions.created[0].ArtistID)
		assert.Equal(t, known.ID, *deps.submissions.created[0].ArtistID)
	})

	t.Run("artist creation disabled leaves the submission unlinked", func(t *testing.T) {
		deps := &testDeps{}
		config := testConfig()
		config.CreateArtists = false
		imp := newTestImporter(config, deps)

		result, err := imp.Run(context.Background(), []entity.ImportRecord{validRecord("node/1", "Bronze Horse")})

		require.NoError(t, err)
		assert.Equal(t, 1, result.SuccessfulImports)
		assert.Zero(t, deps.artists.creates)
		assert.Nil(t, deps.submissions.created[0].ArtistID)
		assert.Equal(t, "Maya Delgado", deps.submissions.created[0].ArtistName)
	})
}

func TestRunApproveFailureKeepsSubmission(t *testing.T) {
	deps := &testDeps{submissions: &fakeSubmissionStore{approveErr: errors.New("deadlock detected")}}
	config := testConfig()
	config.AutoApprove = true
	imp := newTestImporter(config, deps)

	result, err := imp.Run(context.Background(), []entity.ImportRecord{validRecord("node/1", "Bronze Horse")})

	require.NoError(t, err)
	assert.Equal(t, 1, result.FailedImports)
	assert.Zero(t, result.SuccessfulImports)
	// the staged submission survives for manual review
	assert.Len(t, result.CreatedSubmissionIDs, 1)
	assert.Empty(t, result.CreatedArtworkIDs)
}

func TestRunInvalidConfigIsFatal(t *testing.T) {
	deps := &testDeps{}
	config := testConfig()
	config.BatchSize = 0
	imp := newTestImporter(config, deps)

	result, err := imp.Run(context.Background(), []entity.ImportRecord{validRecord("node/1", "Bronze Horse")})

	assert.Nil(t, result)
	require.ErrorIs(t, err, common.ErrConfiguration)
	assert.Zero(t, deps.checker.calls)
	assert.Empty(t, deps.submissions.created)
}

func TestRunSessionAudit(t *testing.T) {
	t.Run("exactly one event per session", func(t *testing.T) {
		deps := &testDeps{}
		imp := newTestImporter(testConfig(), deps)

		_, err := imp.Run(context.Background(), []entity.ImportRecord{
			validRecord("node/1", "Bronze Horse"),
			validRecord("node/2", "Waterfront Mural"),
		})

		require.NoError(t, err)
		require.Len(t, deps.audit.events, 1)
		event := deps.audit.events[0]
		assert.Equal(t, "import_session", event.entityType)
		assert.Equal(t, "import.completed", event.action)
		assert.Equal(t, 2, event.metadata["total_records"])
		assert.Equal(t, "osm summer load", event.metadata["source_name"])
	})

	t.Run("recorded even for an empty session", func(t *testing.T) {
		deps := &testDeps{}
		imp := newTestImporter(testConfig(), deps)

		result, err := imp.Run(context.Background(), nil)

		require.NoError(t, err)
		assert.Zero(t, result.TotalRecords)
		assert.Len(t, deps.audit.events, 1)
	})

	t.Run("sink failure degrades to a warning", func(t *testing.T) {
		deps := &testDeps{audit: &fakeAuditSink{err: errors.New("disk full")}}
		imp := newTestImporter(testConfig(), deps)

		result, err := imp.Run(context.Background(), []entity.ImportRecord{validRecord("node/1", "Bronze Horse")})

		require.NoError(t, err)
		assert.Equal(t, 1, result.SuccessfulImports)
		assert.Zero(t, result.FailedImports)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "disk full")
	})
}

func TestRunBatchingPreservesOrder(t *testing.T) {
	deps := &testDeps{}
	config := testConfig()
	config.BatchSize = 2
	imp := newTestImporter(config, deps)

	var records []entity.ImportRecord
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		records = append(records, validRecord("node/"+id, "Artwork "+id))
	}

	result, err := imp.Run(context.Background(), records)

	require.NoError(t, err)
	assert.Equal(t, 5, result.SuccessfulImports)
	require.Len(t, deps.submissions.created, 5)
	for i, id := range []string{"a", "b", "c", "d", "e"} {
		assert.Equal(t, "node/"+id, deps.submissions.created[i].SourceID)
	}
}
