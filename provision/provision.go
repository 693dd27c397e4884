// Package provision creates one evaluation form per participant.
package provision

import (
	"context"
	"fmt"

	evalforms "github.com/Jumpaku/go-evalforms"
	"github.com/Jumpaku/go-evalforms/config"
	"github.com/Jumpaku/go-evalforms/drive"
	"github.com/Jumpaku/go-evalforms/form"
	"github.com/Jumpaku/go-evalforms/logging"
	"github.com/Jumpaku/go-evalforms/mapping"
	"go.uber.org/zap"
)

type Settings struct {
	// FolderID receives the created forms, or is the root of FolderPath when that is set.
	FolderID      drive.FileID
	FolderPath    drive.Path
	TitleSuffix   string
	Questionnaire form.Questionnaire
	Publish       bool
	Shares        []drive.Permission
}

// SettingsFromConfig converts the provisioning part of cfg.
func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	s := Settings{
		FolderID:    drive.FileID(cfg.FolderID),
		FolderPath:  drive.Path(cfg.FolderPath),
		TitleSuffix: cfg.TitleSuffix,
		Questionnaire: form.Questionnaire{
			Questions: append([]string{}, cfg.Questions...),
			Options:   cfg.OptionCount,
		},
		Publish: cfg.Publish,
	}
	for i, share := range cfg.Shares {
		grantee, err := drive.ParseGrantee(share.Type, share.Address())
		if err != nil {
			return Settings{}, fmt.Errorf("share %d: %w", i, err)
		}
		role, err := drive.ParseRole(share.Role)
		if err != nil {
			return Settings{}, fmt.Errorf("share %d: %w", i, err)
		}
		s.Shares = append(s.Shares, drive.NewPermission(grantee, role, share.AllowFileDiscovery))
	}
	return s, nil
}

type Provisioner struct {
	service  evalforms.Service
	settings Settings
	logger   *zap.Logger
}

func New(service evalforms.Service, settings Settings, logger *zap.Logger) *Provisioner {
	return &Provisioner{service: service, settings: settings, logger: logging.OrNop(logger)}
}

// Title returns the title of the form created for the participant.
func (p *Provisioner) Title(participant string) string {
	return participant + p.settings.TitleSuffix
}

// Run creates a form for every participant in order. A failure for one participant is recorded
// in its Outcome and does not stop the others. The returned error is only set when the target
// folder cannot be resolved, in which case no form is created.
func (p *Provisioner) Run(ctx context.Context, participants []string) (*Report, error) {
	target := p.settings.FolderID
	if p.settings.FolderPath != "" {
		id, err := p.service.EnsureFolder(ctx, p.settings.FolderID, p.settings.FolderPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve folder %s: %w", p.settings.FolderPath, err)
		}
		p.logger.Info("resolved target folder",
			zap.String("folder_path", string(p.settings.FolderPath)),
			zap.String("folder_id", string(id)))
		target = id
	}

	report := &Report{}
	for _, participant := range participants {
		outcome := p.provision(ctx, target, participant)
		if outcome.Err != nil {
			p.logger.Error("failed to provision form",
				zap.String("participant", participant),
				zap.String("form_id", outcome.FormID),
				zap.String("stage", string(outcome.Stage)),
				zap.Bool("recorded", outcome.Recorded),
				zap.Error(outcome.Err))
		} else {
			p.logger.Info("provisioned form",
				zap.String("participant", participant),
				zap.String("form_id", outcome.FormID))
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return report, nil
}

func (p *Provisioner) provision(ctx context.Context, target drive.FileID, participant string) Outcome {
	o := Outcome{Participant: participant, Title: p.Title(participant)}
	fail := func(stage Stage, err error) Outcome {
		o.Stage, o.Err = stage, err
		return o
	}

	created, err := p.service.CreateForm(ctx, o.Title)
	if err != nil {
		return fail(StageCreate, err)
	}
	o.FormID, o.ResponderURI = created.ID, created.ResponderURI

	if err := p.service.BatchUpdate(ctx, created.ID, p.settings.Questionnaire.Edit()); err != nil {
		return fail(StageQuestions, err)
	}
	// The form exists and can collect votes from here on, so it is recorded even if filing it fails.
	o.Recorded = true

	if p.settings.Publish {
		if err := p.service.Publish(ctx, created.ID, form.PublishStateAccepting); err != nil {
			return fail(StagePublish, err)
		}
	}

	fileID := drive.FileID(created.ID)
	parents, err := p.service.Parents(ctx, fileID)
	if err != nil {
		return fail(StageMove, err)
	}
	p.logger.Debug("moving form",
		zap.String("form_id", created.ID),
		zap.Any("from", parents),
		zap.String("to", string(target)))
	if err := p.service.UpdateMetadata(ctx, fileID, drive.Metadata{
		AddParents:    []drive.FileID{target},
		RemoveParents: parents,
	}); err != nil {
		return fail(StageMove, err)
	}

	if err := p.service.UpdateMetadata(ctx, fileID, drive.Metadata{Name: o.Title}); err != nil {
		return fail(StageRename, err)
	}

	for _, share := range p.settings.Shares {
		if err := p.service.Share(ctx, fileID, share); err != nil {
			return fail(StageShare, err)
		}
	}

	return o
}

// Entries returns the recorded name,formId pairs in participant order.
func (r *Report) Entries() []mapping.Entry {
	entries := []mapping.Entry{}
	for _, o := range r.Outcomes {
		if o.Recorded {
			entries = append(entries, mapping.Entry{Name: o.Participant, FormID: o.FormID})
		}
	}
	return entries
}
