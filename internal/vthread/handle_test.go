package vthread

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/vlang/internal/value"
)

func TestHandleWithSerializesAccess(t *testing.T) {
	scope := value.New(nil)
	scope.Define("counter", value.IntVal(0))
	handle := NewHandle(scope)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handle.With(func(s *value.Scope) {
				v, _ := s.Retrieve("counter")
				s.Redefine("counter", value.IntVal(v.IntV+1))
			})
		}()
	}
	wg.Wait()

	v, _ := scope.Retrieve("counter")
	assert.Equal(t, int64(50), v.IntV)
}
