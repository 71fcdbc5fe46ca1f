package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harrisonrobin/habita/pkg/model"
)

type item struct {
	ID    string
	Title string
}

func (i item) GetID() string { return i.ID }

func TestMergeByID_CloudWins(t *testing.T) {
	got := MergeByID([]item{{"1", "Local"}}, []item{{"1", "Cloud"}})
	assert.Equal(t, []item{{"1", "Cloud"}}, got)
}

func TestMergeByID_LocalSurvivesEmptyCloud(t *testing.T) {
	got := MergeByID([]item{{ID: "2"}}, []item{})
	assert.Equal(t, []item{{ID: "2"}}, got)
}

func TestMergeByID_Order(t *testing.T) {
	local := []item{{"3", "l3"}, {"1", "l1"}, {"4", "l4"}}
	cloud := []item{{"2", "c2"}, {"1", "c1"}}

	got := MergeByID(local, cloud)

	assert.Equal(t, []item{{"2", "c2"}, {"1", "c1"}, {"3", "l3"}, {"4", "l4"}}, got)
}

func TestMergeByID_DuplicateCloudIDsKeepLast(t *testing.T) {
	got := MergeByID(nil, []item{{"1", "old"}, {"1", "new"}})
	assert.Equal(t, []item{{"1", "new"}}, got)
}

func TestMergeByID_DomainTypes(t *testing.T) {
	local := []model.DailyTask{{ID: "t1", ActualVal: 3}, {ID: "t2"}}
	cloud := []model.DailyTask{{ID: "t1", ActualVal: 5}}

	got := MergeByID(local, cloud)

	assert.Len(t, got, 2)
	assert.Equal(t, 5, got[0].ActualVal)
	assert.Equal(t, "t2", got[1].ID)
}
