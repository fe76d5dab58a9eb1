package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDateTime(t *testing.T) {
	assert.True(t, IsDateTime("2024-01-02T03:04:05Z"))
	assert.True(t, IsDateTime("2024-01-02T03:04:05.999+02:00"))
	assert.False(t, IsDateTime("2024-01-02"))
	assert.False(t, IsDateTime("not-a-date"))
}

func TestIsTimeLeapSecond(t *testing.T) {
	assert.True(t, IsTime("23:59:60Z"))
	assert.False(t, IsTime("12:00:60Z"))
	assert.True(t, IsTime("08:30:06.283185Z"))
	assert.False(t, IsTime("25:00:00Z"))
}

func TestIsDuration(t *testing.T) {
	assert.True(t, IsDuration("P3D"))
	assert.True(t, IsDuration("P3DT2H"))
	assert.True(t, IsDuration("PT1M"))
	assert.True(t, IsDuration("P1W"))
	assert.False(t, IsDuration("P1W2D"))
	assert.False(t, IsDuration("P"))
	assert.False(t, IsDuration("1D"))
}

func TestIsHostname(t *testing.T) {
	assert.True(t, IsHostname("example.com"))
	assert.True(t, IsHostname("a.b.c"))
	assert.False(t, IsHostname("-bad.com"))
	assert.False(t, IsHostname(""))
}

func TestIsIDNHostname(t *testing.T) {
	assert.True(t, IsIDNHostname("example.com"))
	assert.False(t, IsIDNHostname(""))
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("user@example.com"))
	assert.False(t, IsEmail("not-an-email"))
	assert.False(t, IsEmail("@example.com"))
}

func TestIsIPv4(t *testing.T) {
	assert.True(t, IsIPv4("192.168.0.1"))
	assert.False(t, IsIPv4("192.168.0.1.2"))
	assert.False(t, IsIPv4("999.0.0.1"))
	assert.False(t, IsIPv4("01.0.0.1"))
}

func TestIsIPv6(t *testing.T) {
	assert.True(t, IsIPv6("::1"))
	assert.False(t, IsIPv6("192.168.0.1"))
}

func TestIsURIAndReference(t *testing.T) {
	assert.True(t, IsURI("https://example.com/a"))
	assert.False(t, IsURI("/relative/path"))
	assert.True(t, IsURIReference("/relative/path"))
}

func TestIsJSONPointer(t *testing.T) {
	assert.True(t, IsJSONPointer(""))
	assert.True(t, IsJSONPointer("/a/b~1c~0d"))
	assert.False(t, IsJSONPointer("a/b"))
	assert.False(t, IsJSONPointer("/a~"))
}

func TestIsRelativeJSONPointer(t *testing.T) {
	assert.True(t, IsRelativeJSONPointer("0"))
	assert.True(t, IsRelativeJSONPointer("1/a"))
	assert.True(t, IsRelativeJSONPointer("2#"))
	assert.False(t, IsRelativeJSONPointer(""))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("6e8bc430-9c3a-11d9-9669-0800200c9a66"))
	assert.False(t, IsUUID("not-a-uuid"))
}

func TestRegistryWithIsImmutable(t *testing.T) {
	custom := Default.With("always-true", func(string) bool { return true })
	_, ok := Default["always-true"]
	assert.False(t, ok)
	chk, ok := custom["always-true"]
	assert.True(t, ok)
	assert.True(t, chk("anything"))
}
