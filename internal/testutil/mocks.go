// Package testutil provides mock implementations for interfaces defined in
// the stack-sanitizer core library (pkg/sanitizer and subpackages), plus
// small filesystem helpers for test setup.
package testutil

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/stackvity/stack-sanitizer/pkg/sanitizer"
	senc "github.com/stackvity/stack-sanitizer/pkg/sanitizer/encoding"
)

// MockDetector provides a mock implementation of the encoding.Detector
// interface. Configure expectations using testify/mock methods
// (e.g., .On("DetectAndDecode", ...).Return(...)).
type MockDetector struct {
	mock.Mock
}

// DetectAndDecode mocks the DetectAndDecode method.
func (m *MockDetector) DetectAndDecode(content []byte) (text string, enc senc.Encoding, err error) {
	args := m.Called(content)
	text, _ = args.Get(0).(string)
	enc, _ = args.Get(1).(senc.Encoding)
	err = args.Error(2)
	return
}

// IsBinary mocks the IsBinary method.
func (m *MockDetector) IsBinary(content []byte) bool {
	args := m.Called(content)
	isBinary, _ := args.Get(0).(bool)
	return isBinary
}

// MockBackupManager provides a mock implementation of the
// sanitizer.BackupManager interface.
type MockBackupManager struct {
	mock.Mock
}

// Backup mocks the Backup method.
func (m *MockBackupManager) Backup(path string, original []byte) (record sanitizer.BackupRecord, err error) {
	args := m.Called(path, original)
	record, _ = args.Get(0).(sanitizer.BackupRecord)
	err = args.Error(1)
	return
}

// MockHooks provides a mock implementation of the sanitizer.Hooks interface.
// IMPORTANT: if test logic adds state to this mock (e.g., recording calls),
// the test itself MUST ensure thread-safety for concurrent hook invocations.
type MockHooks struct {
	mock.Mock
}

// OnFileStatusUpdate mocks the OnFileStatusUpdate method.
func (m *MockHooks) OnFileStatusUpdate(path string, status sanitizer.Status, message string, duration time.Duration) error {
	args := m.Called(path, status, message, duration)
	return args.Error(0)
}

// OnRunComplete mocks the OnRunComplete method.
func (m *MockHooks) OnRunComplete(report sanitizer.Report) error {
	args := m.Called(report)
	return args.Error(0)
}
