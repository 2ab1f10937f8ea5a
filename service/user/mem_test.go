package user

import "testing"

func TestMemPut(t *testing.T) {
	testServicePut(t, prepareMem)
}

func TestMemLastSeen(t *testing.T) {
	testServiceLastSeen(t, prepareMem)
}

func TestMemQuery(t *testing.T) {
	testServiceQuery(t, prepareMem)
}

func TestMemSearch(t *testing.T) {
	testServiceSearch(t, prepareMem)
}

func prepareMem(t *testing.T) Service {
	return MemService()
}
