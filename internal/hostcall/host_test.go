package hostcall

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lunatic-rt/lunatic-go/wireformat"
	"github.com/stretchr/testify/assert"
)

// stubHost is a no-op Host used only to prove WithHost/HostFromContext wiring;
// the real implementation lives on *process.Process.
type stubHost struct{}

func (stubHost) CreateConfig(uint64, uint64) uint64                        { return 0 }
func (stubHost) DropConfig(uint64) bool                                    { return false }
func (stubHost) AllowNamespace(uint64, string) bool                        { return false }
func (stubHost) AddPlugin(context.Context, uint64, []byte) (bool, bool)    { return false, false }
func (stubHost) CreateEnvironment(context.Context, uint64) (uint64, bool)  { return 0, false }
func (stubHost) DropEnvironment(uint64) bool                               { return false }
func (stubHost) AddModule(context.Context, uint64, []byte) (uint64, bool, bool) {
	return 0, false, false
}
func (stubHost) AddThisModule(context.Context) (uint64, bool) { return 0, false }
func (stubHost) DropModule(uint64) bool                       { return false }
func (stubHost) Spawn(context.Context, int64, uint64, string, []wireformat.Param) (uint64, bool, bool) {
	return 0, false, false
}
func (stubHost) InheritSpawn(context.Context, int64, string, []wireformat.Param) (uint64, bool) {
	return 0, false
}
func (stubHost) DropProcess(uint64) bool                  { return false }
func (stubHost) CloneProcess(uint64) (uint64, bool)       { return 0, false }
func (stubHost) SleepMs(context.Context, uint64)          {}
func (stubHost) SetDieWhenLinkDies(bool)                  {}
func (stubHost) This() uint64                             { return 0 }
func (stubHost) ID(uint64) (uuid.UUID, bool)              { return uuid.UUID{}, false }
func (stubHost) ThisEnv() uint64                          { return 0 }
func (stubHost) Link(*int64, uint64) bool                 { return false }
func (stubHost) Unlink(uint64) bool                       { return false }
func (stubHost) Register(string, string, uint64, uint64) (bool, bool, bool) {
	return false, false, false
}
func (stubHost) Unregister(string, string, uint64) (bool, bool, bool) {
	return false, false, false
}
func (stubHost) Lookup(string, string) (uint64, bool, bool) { return 0, false, false }
func (stubHost) RegisterError(error) uint64                 { return 0 }

func TestWithHostAndHostFromContext(t *testing.T) {
	t.Parallel()

	host := stubHost{}
	ctx := WithHost(context.Background(), host)
	assert.Equal(t, host, HostFromContext(ctx))
}

func TestHostFromContextPanicsWithoutHost(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		HostFromContext(context.Background())
	})
}
