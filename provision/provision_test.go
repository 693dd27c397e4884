package provision_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Jumpaku/go-evalforms/config"
	"github.com/Jumpaku/go-evalforms/drive"
	evalerrors "github.com/Jumpaku/go-evalforms/errors"
	"github.com/Jumpaku/go-evalforms/evalformstest"
	"github.com/Jumpaku/go-evalforms/form"
	"github.com/Jumpaku/go-evalforms/mapping"
	"github.com/Jumpaku/go-evalforms/provision"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var errRemote = errors.New("remote unavailable")

func testSettings() provision.Settings {
	return provision.Settings{
		FolderID:    "target",
		TitleSuffix: " оценка участника",
		Questionnaire: form.Questionnaire{
			Questions: []string{"Q1", "Q2", "Q3"},
			Options:   5,
		},
	}
}

func TestProvisioner_Run_CreatesFormsInOrder(t *testing.T) {
	fake := evalformstest.NewFake()
	p := provision.New(fake, testSettings(), nil)

	report, err := p.Run(context.Background(), []string{"Иванов", "Петров"})
	require.NoError(t, err)

	want := []evalformstest.Call{
		{Op: evalformstest.OpCreateForm, Key: "Иванов оценка участника"},
		{Op: evalformstest.OpBatchUpdate, Key: "form-1"},
		{Op: evalformstest.OpParents, Key: "form-1"},
		{Op: evalformstest.OpUpdateMetadata, Key: "form-1"},
		{Op: evalformstest.OpUpdateMetadata, Key: "form-1"},
		{Op: evalformstest.OpCreateForm, Key: "Петров оценка участника"},
		{Op: evalformstest.OpBatchUpdate, Key: "form-2"},
		{Op: evalformstest.OpParents, Key: "form-2"},
		{Op: evalformstest.OpUpdateMetadata, Key: "form-2"},
		{Op: evalformstest.OpUpdateMetadata, Key: "form-2"},
	}
	if diff := cmp.Diff(want, fake.Calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}

	created := fake.Forms["form-1"]
	assert.Equal(t, "Иванов оценка участника", created.Name)
	assert.Equal(t, []drive.FileID{"target"}, created.Parents)
	assert.Equal(t, 3, created.Requests)
	titles := []string{}
	for _, item := range created.Items {
		titles = append(titles, item.InfoTitle())
	}
	assert.Equal(t, []string{"Q3", "Q2", "Q1"}, titles)

	assert.Equal(t, 0, report.Failed())
	assert.Equal(t, []mapping.Entry{{Name: "Иванов", FormID: "form-1"}, {Name: "Петров", FormID: "form-2"}}, report.Entries())

	var out bytes.Buffer
	_, err = report.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t,
		"Создана форма для Иванов: link=https://forms.example/form-1/viewform\n"+
			"Создана форма для Петров: link=https://forms.example/form-2/viewform\n",
		out.String())
}

func TestProvisioner_Run_FailuresAreIsolated(t *testing.T) {
	cases := []struct {
		name         string
		fail         func(f *evalformstest.Fake)
		wantStage    provision.Stage
		wantRecorded bool
	}{
		{
			name: "create",
			fail: func(f *evalformstest.Fake) {
				f.FailOn(evalformstest.OpCreateForm, "B оценка участника", errRemote)
			},
			wantStage: provision.StageCreate,
		},
		{
			name:      "questions",
			fail:      func(f *evalformstest.Fake) { f.FailOn(evalformstest.OpBatchUpdate, "form-2", errRemote) },
			wantStage: provision.StageQuestions,
		},
		{
			name:         "move",
			fail:         func(f *evalformstest.Fake) { f.FailOn(evalformstest.OpParents, "form-2", errRemote) },
			wantStage:    provision.StageMove,
			wantRecorded: true,
		},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			fake := evalformstest.NewFake()
			c.fail(fake)
			p := provision.New(fake, testSettings(), nil)

			report, err := p.Run(context.Background(), []string{"A", "B", "C"})
			require.NoError(t, err)
			require.Len(t, report.Outcomes, 3)
			assert.Equal(t, 1, report.Failed())

			failed := report.Outcomes[1]
			assert.Equal(t, c.wantStage, failed.Stage)
			assert.Equal(t, c.wantRecorded, failed.Recorded)
			assert.ErrorIs(t, failed.Err, errRemote)
			assert.ErrorIs(t, failed.Err, evalerrors.ErrAPIError)

			assert.NoError(t, report.Outcomes[0].Err)
			assert.NoError(t, report.Outcomes[2].Err)

			names := []string{}
			for _, e := range report.Entries() {
				names = append(names, e.Name)
			}
			if c.wantRecorded {
				assert.Equal(t, []string{"A", "B", "C"}, names)
			} else {
				assert.Equal(t, []string{"A", "C"}, names)
			}

			var out bytes.Buffer
			_, err = report.WriteTo(&out)
			require.NoError(t, err)
			assert.Contains(t, out.String(), "Ошибка при создании формы для B: ")
			assert.Contains(t, out.String(), "Создана форма для C: link=")
		})
	}
}

func TestProvisioner_Run_PublishAndShare(t *testing.T) {
	settings := testSettings()
	settings.Publish = true
	settings.Shares = []drive.Permission{
		drive.GroupPermission("jury@example.com", drive.RoleReader),
		drive.UserPermission("chair@example.com", drive.RoleWriter),
	}
	fake := evalformstest.NewFake()

	report, err := provision.New(fake, settings, nil).Run(context.Background(), []string{"A"})
	require.NoError(t, err)
	require.NoError(t, report.Outcomes[0].Err)

	assert.Equal(t, []string{"form-1"}, fake.CallsOf(evalformstest.OpPublish))
	assert.Equal(t, []string{"form-1", "form-1"}, fake.CallsOf(evalformstest.OpShare))
	assert.Equal(t, form.PublishStateAccepting, fake.Forms["form-1"].PublishState)
	assert.Len(t, fake.Forms["form-1"].Permissions, 2)
}

func TestProvisioner_Run_ShareFailureKeepsEntry(t *testing.T) {
	settings := testSettings()
	settings.Shares = []drive.Permission{drive.AnyonePermission(drive.RoleReader, false)}
	fake := evalformstest.NewFake().FailOn(evalformstest.OpShare, "form-1", errRemote)

	report, err := provision.New(fake, settings, nil).Run(context.Background(), []string{"A"})
	require.NoError(t, err)
	assert.Equal(t, provision.StageShare, report.Outcomes[0].Stage)
	assert.Equal(t, []mapping.Entry{{Name: "A", FormID: "form-1"}}, report.Entries())
}

func TestProvisioner_Run_FolderPath(t *testing.T) {
	settings := testSettings()
	settings.FolderPath = "/2026/jury"
	fake := evalformstest.NewFake()

	_, err := provision.New(fake, settings, nil).Run(context.Background(), []string{"A"})
	require.NoError(t, err)

	folder := fake.Folders["/2026/jury"]
	require.NotEmpty(t, folder)
	created := fake.Forms[fake.CallsOf(evalformstest.OpBatchUpdate)[0]]
	assert.Equal(t, []drive.FileID{folder}, created.Parents)
}

func TestProvisioner_Run_FolderPathFailureCreatesNothing(t *testing.T) {
	settings := testSettings()
	settings.FolderPath = "/2026/jury"
	fake := evalformstest.NewFake().FailOn(evalformstest.OpEnsureFolder, "/2026/jury", errRemote)

	report, err := provision.New(fake, settings, nil).Run(context.Background(), []string{"A"})
	assert.ErrorIs(t, err, errRemote)
	assert.Nil(t, report)
	assert.Empty(t, fake.CallsOf(evalformstest.OpCreateForm))
}

func TestProvisioner_Run_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fake := evalformstest.NewFake()

	report, err := provision.New(fake, testSettings(), nil).Run(ctx, []string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Failed())
	for _, o := range report.Outcomes {
		assert.ErrorIs(t, o.Err, context.Canceled)
		assert.Equal(t, provision.StageCreate, o.Stage)
	}
	assert.Empty(t, report.Entries())
}

func TestProvisioner_Run_Logs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	fake := evalformstest.NewFake().FailOn(evalformstest.OpCreateForm, "B оценка участника", errRemote)

	_, err := provision.New(fake, testSettings(), zap.New(core)).Run(context.Background(), []string{"A", "B"})
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("provisioned form").Len())
	failed := logs.FilterMessage("failed to provision form").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "B", failed[0].ContextMap()["participant"])
	assert.Equal(t, "create", failed[0].ContextMap()["stage"])
}

func TestReport_Save(t *testing.T) {
	report := &provision.Report{Outcomes: []provision.Outcome{
		{Participant: "A", FormID: "f1", Recorded: true},
		{Participant: "B", Err: errRemote, Stage: provision.StageCreate},
		{Participant: "C", FormID: "f3", Recorded: true, Err: errRemote, Stage: provision.StageMove},
	}}
	path := filepath.Join(t.TempDir(), "forms_info.txt")

	var out bytes.Buffer
	require.NoError(t, report.Save(&out, path))
	assert.Equal(t, "Файл '"+path+"' обновлен в формате ФИО,formId.\n", out.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A,f1\nC,f3", string(data))
}

func TestReport_Save_Error(t *testing.T) {
	report := &provision.Report{}
	path := filepath.Join(t.TempDir(), "missing", "forms_info.txt")

	var out bytes.Buffer
	err := report.Save(&out, path)
	assert.ErrorIs(t, err, evalerrors.ErrIOError)
	assert.Contains(t, out.String(), "Ошибка при обновлении файла "+path+": ")
}

func TestInputMessage(t *testing.T) {
	assert.Equal(t, "Файл с участниками не найден!", provision.InputMessage(evalerrors.ErrNotFound))
	assert.Equal(t, "Файл пуст или содержит только пробелы.", provision.InputMessage(evalerrors.ErrEmptyInput))
	assert.Contains(t, provision.InputMessage(errRemote), "remote unavailable")
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.FolderPath = "/jury"
	cfg.Shares = []config.Share{
		{Type: "domain", Domain: "example.com", Role: "reader", AllowFileDiscovery: true},
		{Type: "user", Email: "chair@example.com", Role: "writer"},
	}

	s, err := provision.SettingsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, drive.FileID(cfg.FolderID), s.FolderID)
	assert.Equal(t, drive.Path("/jury"), s.FolderPath)
	assert.Equal(t, config.DefaultQuestions, s.Questionnaire.Questions)
	assert.Equal(t, 5, s.Questionnaire.Options)
	require.Len(t, s.Shares, 2)
	assert.Equal(t, drive.GranteeDomain{Domain: "example.com"}, s.Shares[0].Grantee())
	assert.True(t, s.Shares[0].AllowFileDiscovery())
	assert.Equal(t, drive.RoleWriter, s.Shares[1].Role())

	p := provision.New(evalformstest.NewFake(), s, nil)
	assert.Equal(t, "Иванов оценка участника", p.Title("Иванов"))
}

func TestSettingsFromConfig_BadShare(t *testing.T) {
	cfg := config.Default()
	cfg.Shares = []config.Share{{Type: "robot", Role: "reader"}}
	_, err := provision.SettingsFromConfig(cfg)
	assert.Error(t, err)
}
