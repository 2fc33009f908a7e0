package reports

import (
	"context"
	"fmt"

	"github.com/moh-ammad/exceltovisual/logging"
	"github.com/moh-ammad/exceltovisual/metrics"
	"github.com/moh-ammad/exceltovisual/models"
	"github.com/moh-ammad/exceltovisual/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const (
	MessageImportOK     = "Import completed successfully."
	MessageImportErrors = "Import completed with errors."
)

type ImportOptions struct {
	Actor models.User
	// SelfScoped restricts the batch to the actor's own tasks and ignores
	// the Users sheet.
	SelfScoped bool
}

type ImportResult struct {
	UsersCreated int      `json:"usersCreated"`
	UsersUpdated int      `json:"usersUpdated"`
	TasksCreated int      `json:"tasksCreated"`
	TasksUpdated int      `json:"tasksUpdated"`
	Skipped      int      `json:"skipped"`
	Errors       []string `json:"-"`
}

func (r *ImportResult) OK() bool {
	return len(r.Errors) == 0
}

func (r *ImportResult) Message() string {
	if r.OK() {
		return MessageImportOK
	}
	return MessageImportErrors
}

type ImporterConfig struct {
	AdminKey     string
	Workers      int
	PasswordHash func() (string, error)
	UserAliases  AliasTable
	TaskAliases  AliasTable
}

// Importer reconciles a workbook against the user and task stores. It holds
// no per-batch state; every Import call builds its own resolver and error
// list.
type Importer struct {
	users    repositories.UserStore
	tasks    repositories.TaskStore
	writer   *Writer
	validate *validator.Validate
	cfg      ImporterConfig
}

func NewImporter(users repositories.UserStore, tasks repositories.TaskStore, cfg ImporterConfig) *Importer {
	if cfg.UserAliases == nil {
		cfg.UserAliases = DefaultUserAliases
	}
	if cfg.TaskAliases == nil {
		cfg.TaskAliases = DefaultTaskAliases
	}
	return &Importer{
		users:    users,
		tasks:    tasks,
		writer:   NewWriter(users, tasks, cfg.AdminKey, cfg.PasswordHash),
		validate: NewValidator(),
		cfg:      cfg,
	}
}

// Import applies the Users sheet, then the Tasks sheet. Row problems are
// collected in the result; the returned error is reserved for a nil workbook
// or a cancelled context.
func (im *Importer) Import(ctx context.Context, wb *Workbook, opts ImportOptions) (*ImportResult, error) {
	if wb == nil {
		return nil, ErrNoFile
	}
	res := &ImportResult{}
	errs := &RowErrors{}

	if err := im.importUsers(ctx, wb.Sheet(SheetUsers), opts, res, errs); err != nil {
		return nil, err
	}

	resolver, err := im.buildResolver(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := im.importTasks(ctx, wb.Sheet(SheetTasks), resolver, opts, res, errs); err != nil {
		return nil, err
	}

	res.Errors = errs.Items()
	logging.Logger.WithFields(logrus.Fields{
		"actor":        opts.Actor.Email,
		"usersCreated": res.UsersCreated,
		"usersUpdated": res.UsersUpdated,
		"tasksCreated": res.TasksCreated,
		"tasksUpdated": res.TasksUpdated,
		"skipped":      res.Skipped,
		"errors":       len(res.Errors),
	}).Info("Event ID: IMPORT_COMPLETED, Description: Workbook import finished")
	return res, nil
}

func (im *Importer) importUsers(ctx context.Context, sheet *Sheet, opts ImportOptions, res *ImportResult, errs *RowErrors) error {
	if sheet == nil {
		return nil
	}
	binding := im.cfg.UserAliases.Bind(sheet.Headers)

	var rows []UserRow
	for _, sr := range sheet.Rows {
		row, ok := NormalizeUserRow(binding, sr.Number, sr.Cells)
		if !ok {
			res.Skipped++
			metrics.ImportRows.WithLabelValues(SheetUsers, metrics.OutcomeSkipped).Inc()
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}
	if opts.SelfScoped {
		errs.AddSheet(SheetUsers, "you are not allowed to import users")
		return nil
	}

	rv := NewRowValidator(im.validate, nil, opts.Actor, false)
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		vu, reasons := rv.ValidateUser(row)
		if len(reasons) > 0 {
			im.rowFailed(errs, SheetUsers, row.Row, reasons...)
			continue
		}
		created, err := im.writer.WriteUser(ctx, *vu)
		if err != nil {
			im.rowFailed(errs, SheetUsers, row.Row, err.Error())
			continue
		}
		if created {
			res.UsersCreated++
			metrics.ImportRows.WithLabelValues(SheetUsers, metrics.OutcomeCreated).Inc()
		} else {
			res.UsersUpdated++
			metrics.ImportRows.WithLabelValues(SheetUsers, metrics.OutcomeUpdated).Inc()
		}
	}
	return nil
}

func (im *Importer) buildResolver(ctx context.Context, opts ImportOptions) (*Resolver, error) {
	if opts.SelfScoped {
		return NewResolver([]models.User{opts.Actor}), nil
	}
	users, err := im.users.List(ctx, repositories.UserFilter{})
	if err != nil {
		return nil, fmt.Errorf("load users for reference resolution: %w", err)
	}
	return NewResolver(users), nil
}

func (im *Importer) importTasks(ctx context.Context, sheet *Sheet, resolver *Resolver, opts ImportOptions, res *ImportResult, errs *RowErrors) error {
	if sheet == nil {
		return nil
	}
	binding := im.cfg.TaskAliases.Bind(sheet.Headers)

	var rows []TaskRow
	for _, sr := range sheet.Rows {
		row, ok := NormalizeTaskRow(binding, sr.Number, sr.Cells)
		if !ok {
			res.Skipped++
			metrics.ImportRows.WithLabelValues(SheetTasks, metrics.OutcomeSkipped).Inc()
			continue
		}
		rows = append(rows, row)
	}

	rv := NewRowValidator(im.validate, resolver, opts.Actor, opts.SelfScoped)
	results, err := rv.ValidateTasks(ctx, rows, im.cfg.Workers)
	if err != nil {
		return err
	}

	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(r.Reasons) > 0 {
			im.rowFailed(errs, SheetTasks, r.Row, r.Reasons...)
			continue
		}
		created, err := im.writer.WriteTask(ctx, *r.Task, opts.Actor, opts.SelfScoped)
		if err != nil {
			im.rowFailed(errs, SheetTasks, r.Row, err.Error())
			continue
		}
		if created {
			res.TasksCreated++
			metrics.ImportRows.WithLabelValues(SheetTasks, metrics.OutcomeCreated).Inc()
		} else {
			res.TasksUpdated++
			metrics.ImportRows.WithLabelValues(SheetTasks, metrics.OutcomeUpdated).Inc()
		}
	}
	return nil
}

func (im *Importer) rowFailed(errs *RowErrors, sheet string, row int, reasons ...string) {
	for _, reason := range reasons {
		errs.Add(sheet, row, reason)
	}
	metrics.ImportRows.WithLabelValues(sheet, metrics.OutcomeFailed).Inc()
	logging.Logger.Warnf("Event ID: IMPORT_ROW_REJECTED, Description: %s row %d rejected: %v", sheet, row, reasons)
}
