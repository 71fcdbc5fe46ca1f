package checkin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/habita/pkg/model"
)

func fixtures() ([]model.Agenda, []model.DailyTask) {
	agendas := []model.Agenda{
		{ID: "read", Kind: model.NUMERIC, BufferTokens: 1},
		{ID: "run", Kind: model.BOOLEAN},
	}
	tasks := []model.DailyTask{
		{ID: "r1", AgendaID: "read", TargetVal: 20, Status: model.PENDING},
		{ID: "u1", AgendaID: "run", TargetVal: 1, Status: model.PENDING},
		{ID: "r2", AgendaID: "read", TargetVal: 20, Status: model.PENDING},
		{ID: "o1", AgendaID: "ghost", TargetVal: 1, Status: model.PENDING},
	}
	return agendas, tasks
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, model.FAILED, StatusFor(0, 10))
	assert.Equal(t, model.PARTIAL, StatusFor(4, 10))
	assert.Equal(t, model.COMPLETED, StatusFor(10, 10))
	assert.Equal(t, model.COMPLETED, StatusFor(12, 10))
}

func TestRecord(t *testing.T) {
	_, tasks := fixtures()

	out, missing, err := Record(tasks, "r1", 12, []string{"Tired"})
	require.NoError(t, err)

	assert.Equal(t, 8, missing)
	assert.Equal(t, model.PARTIAL, out[0].Status)
	assert.Equal(t, 12, out[0].ActualVal)
	assert.Equal(t, []string{"Tired"}, out[0].FailureTags)
	assert.Equal(t, model.PENDING, tasks[0].Status)

	_, _, err = Record(tasks, "nope", 1, nil)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestSkip(t *testing.T) {
	agendas, tasks := fixtures()

	outAgendas, outTasks, err := Skip(agendas, tasks, "r1")
	require.NoError(t, err)
	assert.Equal(t, model.SKIPPED_WITH_BUFFER, outTasks[0].Status)
	assert.Equal(t, 0, outAgendas[0].BufferTokens)
	assert.Equal(t, 1, agendas[0].BufferTokens)

	_, _, err = Skip(outAgendas, outTasks, "r2")
	assert.ErrorIs(t, err, ErrNoBufferTokens)

	_, _, err = Skip(agendas, tasks, "o1")
	assert.ErrorIs(t, err, ErrAgendaNotFound)
}

func TestDeleteAgendaCascades(t *testing.T) {
	agendas, tasks := fixtures()

	outAgendas, outTasks, err := DeleteAgenda(agendas, tasks, "read")
	require.NoError(t, err)

	require.Len(t, outAgendas, 1)
	assert.Equal(t, "run", outAgendas[0].ID)
	var ids []string
	for _, task := range outTasks {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"u1", "o1"}, ids)

	_, _, err = DeleteAgenda(agendas, tasks, "ghost")
	assert.ErrorIs(t, err, ErrAgendaNotFound)
}

func TestDropOrphansAndForAgenda(t *testing.T) {
	agendas, tasks := fixtures()

	assert.Len(t, DropOrphans(agendas, tasks), 3)
	read := ForAgenda(tasks, "read")
	require.Len(t, read, 2)
	assert.Equal(t, "r2", read[1].ID)
}
