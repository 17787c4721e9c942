package audit

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/pkgchores/internal/toolchain"
)

const (
	auditorNotConfiguredMessageConstant  = "audit runner not configured"
	reporterNotConfiguredMessageConstant = "audit reporter not configured"
	auditLaunchFailureTemplateConstant   = "failed to run dependency audit: %w"
	suppressedNoticeTemplateConstant     = "Ignored vulnerabilities below %s severity (audit exit status %d)"
	auditFinishedLogMessageConstant      = "dependency audit finished"
	logFieldRawStatusConstant            = "raw_status"
	logFieldExitStatusConstant           = "exit_status"
	logFieldMinimumConstant              = "minimum"
)

// ErrAuditorNotConfigured indicates that no audit runner was supplied.
var ErrAuditorNotConfigured = errors.New(auditorNotConfiguredMessageConstant)

// ErrReporterNotConfigured indicates that no reporter was supplied.
var ErrReporterNotConfigured = errors.New(reporterNotConfiguredMessageConstant)

// Auditor runs the dependency audit and returns its raw exit status.
type Auditor interface {
	Audit(executionContext context.Context, projectPath string, options toolchain.AuditOptions) (int, error)
}

// Reporter narrates audit outcomes.
type Reporter interface {
	Noticef(format string, arguments ...any)
}

// Options configures one audit run.
type Options struct {
	ProjectPath string
	Level       Severity
	JSON        bool
	Minimum     Severity
}

// Result describes the outcome of an audit run.
type Result struct {
	RawStatus  int
	ExitStatus int
	Suppressed bool
}

// Service runs the audit and applies the minimum severity.
type Service struct {
	logger   *zap.Logger
	auditor  Auditor
	reporter Reporter
}

// NewService validates dependencies and constructs a Service.
func NewService(logger *zap.Logger, auditor Auditor, reporter Reporter) (*Service, error) {
	if auditor == nil {
		return nil, ErrAuditorNotConfigured
	}
	if reporter == nil {
		return nil, ErrReporterNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, auditor: auditor, reporter: reporter}, nil
}

// Run executes the audit. Only a launch failure is returned as an error.
func (service *Service) Run(executionContext context.Context, options Options) (Result, error) {
	rawStatus, auditError := service.auditor.Audit(executionContext, options.ProjectPath, toolchain.AuditOptions{
		Level: string(options.Level),
		JSON:  options.JSON,
	})
	if auditError != nil {
		return Result{}, fmt.Errorf(auditLaunchFailureTemplateConstant, auditError)
	}

	exitStatus, suppressed := ApplyMinimum(rawStatus, options.Minimum)
	if suppressed {
		service.reporter.Noticef(suppressedNoticeTemplateConstant, options.Minimum, rawStatus)
	}

	service.logger.Debug(auditFinishedLogMessageConstant,
		zap.Int(logFieldRawStatusConstant, rawStatus),
		zap.Int(logFieldExitStatusConstant, exitStatus),
		zap.String(logFieldMinimumConstant, string(options.Minimum)),
	)

	return Result{RawStatus: rawStatus, ExitStatus: exitStatus, Suppressed: suppressed}, nil
}
