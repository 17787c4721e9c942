package audit_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/pkgchores/internal/audit"
	"github.com/temirov/pkgchores/internal/toolchain"
)

const testProjectPathConstant = "/tmp/widget"

type stubAuditor struct {
	status          int
	err             error
	recordedPath    string
	recordedOptions toolchain.AuditOptions
}

func (auditor *stubAuditor) Audit(_ context.Context, projectPath string, options toolchain.AuditOptions) (int, error) {
	auditor.recordedPath = projectPath
	auditor.recordedOptions = options
	return auditor.status, auditor.err
}

type recordingReporter struct {
	notices []string
}

func (reporter *recordingReporter) Noticef(format string, arguments ...any) {
	reporter.notices = append(reporter.notices, fmt.Sprintf(format, arguments...))
}

func TestServiceSuppressesFindingsBelowMinimum(testInstance *testing.T) {
	auditor := &stubAuditor{status: 4}
	reporter := &recordingReporter{}
	service, serviceError := audit.NewService(zap.NewNop(), auditor, reporter)
	require.NoError(testInstance, serviceError)

	result, runError := service.Run(context.Background(), audit.Options{ProjectPath: testProjectPathConstant, Minimum: audit.SeverityHigh})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, audit.Result{RawStatus: 4, ExitStatus: 0, Suppressed: true}, result)
	require.Equal(testInstance, []string{"Ignored vulnerabilities below high severity (audit exit status 4)"}, reporter.notices)
}

func TestServiceKeepsStatusAtOrAboveMinimum(testInstance *testing.T) {
	auditor := &stubAuditor{status: 9}
	reporter := &recordingReporter{}
	service, serviceError := audit.NewService(zap.NewNop(), auditor, reporter)
	require.NoError(testInstance, serviceError)

	result, runError := service.Run(context.Background(), audit.Options{ProjectPath: testProjectPathConstant, Minimum: audit.SeverityHigh})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 9, result.ExitStatus)
	require.False(testInstance, result.Suppressed)
	require.Empty(testInstance, reporter.notices)
}

func TestServiceForwardsDisplayOptions(testInstance *testing.T) {
	auditor := &stubAuditor{status: 2}
	service, serviceError := audit.NewService(nil, auditor, &recordingReporter{})
	require.NoError(testInstance, serviceError)

	result, runError := service.Run(context.Background(), audit.Options{ProjectPath: testProjectPathConstant, Level: audit.SeverityModerate, JSON: true})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 2, result.ExitStatus)
	require.Equal(testInstance, testProjectPathConstant, auditor.recordedPath)
	require.Equal(testInstance, toolchain.AuditOptions{Level: "moderate", JSON: true}, auditor.recordedOptions)
}

func TestServiceReturnsLaunchFailures(testInstance *testing.T) {
	launchError := errors.New("yarn: executable file not found")
	service, serviceError := audit.NewService(zap.NewNop(), &stubAuditor{err: launchError}, &recordingReporter{})
	require.NoError(testInstance, serviceError)

	_, runError := service.Run(context.Background(), audit.Options{})
	require.ErrorIs(testInstance, runError, launchError)
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	_, auditorError := audit.NewService(zap.NewNop(), nil, &recordingReporter{})
	require.ErrorIs(testInstance, auditorError, audit.ErrAuditorNotConfigured)

	_, reporterError := audit.NewService(zap.NewNop(), &stubAuditor{}, nil)
	require.ErrorIs(testInstance, reporterError, audit.ErrReporterNotConfigured)
}
