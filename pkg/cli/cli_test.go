package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/habita/pkg/config"
	"github.com/harrisonrobin/habita/pkg/model"
	"github.com/harrisonrobin/habita/pkg/reconcile"
)

const agendasYAML = `- id: read
  title: Read
  kind: NUMERIC
  unit: pages
  daily_target: 10
  recurrence: DAILY
  start_date: 2026-10-15
  end_date: 2026-10-21
  buffer_tokens: 1
- id: walk
  title: Walk
  kind: BOOLEAN
  recurrence: DAILY
  start_date: 2026-10-15
  end_date: 2026-10-21
`

type harness struct {
	t       *testing.T
	dir     string
	cfgPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	orig := config.Dir
	config.Dir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { config.Dir = orig })

	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "calendar: Habits\nstore: file\ndata_dir: " + filepath.Join(dir, "data") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0600))
	return &harness{t: t, dir: dir, cfgPath: cfgPath}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--config", h.cfgPath, "--today", "2026-10-17"}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func (h *harness) state() reconcile.State {
	h.t.Helper()
	var s reconcile.State
	require.NoError(h.t, json.Unmarshal([]byte(h.mustRun("export", "--format", "json")), &s))
	return s
}

func findTask(t *testing.T, s reconcile.State, agendaID string, day model.Date) model.DailyTask {
	t.Helper()
	for _, task := range s.Tasks {
		if task.AgendaID == agendaID && task.ScheduledDate.Equal(day) {
			return task
		}
	}
	t.Fatalf("no %s task on %s", agendaID, day)
	return model.DailyTask{}
}

func findAgenda(s reconcile.State, id string) model.Agenda {
	for _, a := range s.Agendas {
		if a.ID == id {
			return a
		}
	}
	return model.Agenda{}
}

func day(d int) model.Date { return model.NewDate(2026, 10, d) }

func TestCLI_DailyFlow(t *testing.T) {
	h := newHarness(t)
	file := filepath.Join(h.dir, "agendas.yaml")
	require.NoError(t, os.WriteFile(file, []byte(agendasYAML), 0600))

	out := h.mustRun("agenda", "add", "-f", file)
	assert.Contains(t, out, "Added agenda read (Read) with 7 task(s)")
	assert.Contains(t, out, "Added agenda walk (Walk) with 7 task(s)")

	// adding the same ids again is refused
	_, err := h.run("agenda", "add", "-f", file)
	assert.Error(t, err)

	out = h.mustRun("today")
	assert.Contains(t, out, "Read 0/10 pages")
	assert.Contains(t, out, "Walk")

	s := h.state()
	require.Len(t, s.Tasks, 14)
	readToday := findTask(t, s, "read", day(17))

	h.mustRun("checkin", readToday.ID, "4", "--tag", "Tired", "--redistribute", "spread")
	s = h.state()
	got := findTask(t, s, "read", day(17))
	assert.Equal(t, model.PARTIAL, got.Status)
	assert.Equal(t, []string{"Tired"}, got.FailureTags)
	for d, want := range map[int]int{18: 12, 19: 12, 20: 11, 21: 11} {
		next := findTask(t, s, "read", day(d))
		assert.Equal(t, want, next.TargetVal, "target on %d", d)
		assert.True(t, next.WasRecalculated)
	}

	out = h.mustRun("sweep")
	assert.Contains(t, out, "2026-10-15")
	s = h.state()
	assert.Equal(t, model.SKIPPED_WITH_BUFFER, findTask(t, s, "read", day(15)).Status)
	assert.Equal(t, model.FAILED, findTask(t, s, "read", day(16)).Status)
	assert.Equal(t, model.FAILED, findTask(t, s, "walk", day(15)).Status)
	assert.Equal(t, 0, findAgenda(s, "read").BufferTokens)

	walkToday := findTask(t, s, "walk", day(17))
	h.mustRun("checkin", walkToday.ID)
	assert.Equal(t, model.COMPLETED, findTask(t, h.state(), "walk", day(17)).Status)

	out = h.mustRun("stats")
	assert.Contains(t, out, "Read")
	assert.Contains(t, out, "Consistency vs previous 7 days")

	h.mustRun("agenda", "delete", "walk")
	s = h.state()
	assert.Len(t, s.Agendas, 1)
	assert.Len(t, s.Tasks, 7)
}

const pagesYAML = `- id: pages
  title: Pages
  kind: NUMERIC
  unit: pages
  daily_target: 10
  recurrence: DAILY
  start_date: 2026-10-15
  end_date: 2026-10-19
`

func TestCLI_SweepMovesShortfallsToOpenDays(t *testing.T) {
	h := newHarness(t)
	file := filepath.Join(h.dir, "pages.yaml")
	require.NoError(t, os.WriteFile(file, []byte(pagesYAML), 0600))
	h.mustRun("agenda", "add", "-f", file)

	h.mustRun("sweep", "--redistribute", "tomorrow")

	s := h.state()
	missed := findTask(t, s, "pages", day(16))
	assert.Equal(t, model.FAILED, missed.Status)
	assert.Equal(t, 10, missed.TargetVal)
	assert.Equal(t, 30, findTask(t, s, "pages", day(17)).TargetVal)

	pending := 0
	for _, task := range s.Tasks {
		if task.Status == model.PENDING {
			pending += task.TargetVal
		}
	}
	assert.Equal(t, 50, pending)
}

func TestCLI_CheckinNegativeAmountFails(t *testing.T) {
	h := newHarness(t)
	file := filepath.Join(h.dir, "pages.yaml")
	require.NoError(t, os.WriteFile(file, []byte(pagesYAML), 0600))
	h.mustRun("agenda", "add", "-f", file)

	id := findTask(t, h.state(), "pages", day(17)).ID
	h.mustRun("checkin", id, "--", "-5")

	got := findTask(t, h.state(), "pages", day(17))
	assert.Equal(t, model.FAILED, got.Status)
	assert.Equal(t, 0, got.ActualVal)
}

func TestCLI_SkipNeedsBufferToken(t *testing.T) {
	h := newHarness(t)
	file := filepath.Join(h.dir, "agendas.yaml")
	require.NoError(t, os.WriteFile(file, []byte(agendasYAML), 0600))
	h.mustRun("agenda", "add", "-f", file)

	s := h.state()
	h.mustRun("skip", findTask(t, s, "read", day(17)).ID)
	assert.Equal(t, model.SKIPPED_WITH_BUFFER, findTask(t, h.state(), "read", day(17)).Status)

	_, err := h.run("skip", findTask(t, s, "read", day(18)).ID)
	assert.Error(t, err)
}

func TestCLI_SyncFromSnapshot(t *testing.T) {
	h := newHarness(t)
	snapshot := filepath.Join(h.dir, "remote.json")
	remoteTree := `[{"id":"run","title":"Run","type":"boolean","recurrence_pattern":"daily","start_date":"2026-10-17","buffer_tokens":0,
	  "tasks":[{"id":"r1","agenda_id":"run","scheduled_date":"2026-10-17","target_val":1,"actual_val":1,"status":"completed"}]}]`
	require.NoError(t, os.WriteFile(snapshot, []byte(remoteTree), 0600))

	out := h.mustRun("sync", "--snapshot", snapshot)
	assert.Contains(t, out, "Synced 1 agenda(s) and 1 task(s)")

	s := h.state()
	require.Len(t, s.Tasks, 1)
	assert.Equal(t, model.COMPLETED, s.Tasks[0].Status)

	_, err := h.run("sync")
	assert.Error(t, err, "no remote configured")
}

func TestCLI_SetCalendarAndBadToday(t *testing.T) {
	h := newHarness(t)
	h.mustRun("set-calendar", "Goals")
	cfg, err := config.Load(h.cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "Goals", cfg.Calendar)

	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--config", h.cfgPath, "--today", "yesterday", "today"})
	assert.Error(t, cmd.Execute())
}

func TestParseAgendas_SingleDocument(t *testing.T) {
	agendas, err := parseAgendas([]byte("title: Meditate\nkind: BOOLEAN\nrecurrence: WEEKDAYS\n"))
	require.NoError(t, err)
	require.Len(t, agendas, 1)
	assert.Equal(t, model.WEEKDAYS, agendas[0].Recurrence)
}
