package job

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestLowestUnusedIDReused(t *testing.T) {
	c := qt.New(t)
	tbl := NewTable()
	j1 := tbl.CreateJob("a", 100, []int{100})
	j2 := tbl.CreateJob("b", 200, []int{200})
	c.Assert(j1.ID, qt.Equals, JobId(1))
	c.Assert(j2.ID, qt.Equals, JobId(2))

	tbl.DestroyJob(j1.ID)
	j3 := tbl.CreateJob("c", 300, []int{300})
	c.Assert(j3.ID, qt.Equals, JobId(1))
}

func TestCompletedStateNeverResets(t *testing.T) {
	c := qt.New(t)
	tbl := NewTable()
	j := tbl.CreateJob("a", 1, []int{1})
	tbl.SetProcessState(1, ProcessState{State: Completed, Code: 0})
	tbl.SetProcessState(1, ProcessState{State: Running})
	st, _ := tbl.GetProcessState(1)
	c.Assert(st.State, qt.Equals, Completed)
	c.Assert(tbl.Completed(j), qt.IsTrue)
}

func TestJobCompletedRequiresAllPids(t *testing.T) {
	c := qt.New(t)
	tbl := NewTable()
	j := tbl.CreateJob("pipeline", 1, []int{1, 2})
	tbl.SetProcessState(1, ProcessState{State: Completed})
	c.Assert(tbl.Completed(j), qt.IsFalse)
	tbl.SetProcessState(2, ProcessState{State: Completed})
	c.Assert(tbl.Completed(j), qt.IsTrue)
}

func TestLastForegroundClearedOnDestroy(t *testing.T) {
	c := qt.New(t)
	tbl := NewTable()
	j := tbl.CreateJob("a", 1, []int{1})
	tbl.SetLastForeground(j.ID)
	tbl.DestroyJob(j.ID)
	_, ok := tbl.LastForeground()
	c.Assert(ok, qt.IsFalse)
}
