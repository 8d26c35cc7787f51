package vws

import (
	"testing"

	"vws-web-tools/internal/browser"
	"vws-web-tools/internal/wait"
	"vws-web-tools/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const cloudDatabasePage = `<html><body>
<div class="tab-content">
	<span class="server-access-key"> sak </span>
	<span class="server-secret-key">ssk</span>
	<input class="client-access-key" value="cak">
	<input class="client-secret-key" value="csk">
</div>
</body></html>`

func TestScrapeDatabaseDetails(t *testing.T) {
	testCases := []struct {
		name     string
		page     string
		done     bool
		expected DatabaseDetails
	}{
		{
			name: "cloud database",
			page: cloudDatabasePage,
			done: true,
			expected: DatabaseDetails{
				DatabaseName:    "db",
				ServerAccessKey: "sak",
				ServerSecretKey: "ssk",
				ClientAccessKey: "cak",
				ClientSecretKey: "csk",
			},
		},
		{
			name: "vumark database",
			page: `<div><span class="server-access-key">sak</span><span class="server-secret-key">ssk</span></div>`,
			done: true,
			expected: DatabaseDetails{
				DatabaseName:    "db",
				ServerAccessKey: "sak",
				ServerSecretKey: "ssk",
			},
		},
		{
			name: "client keys still rendering",
			page: `<div>
				<span class="server-access-key">sak</span><span class="server-secret-key">ssk</span>
				<span class="client-access-key"></span><span class="client-secret-key"></span>
			</div>`,
			done: false,
		},
		{
			name: "server keys missing",
			page: `<div><span class="client-access-key">cak</span></div>`,
			done: false,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			details, done, err := scrapeDatabaseDetails("db", test.page)
			require.NoError(t, err)
			require.Equal(t, test.done, done)
			if test.done {
				require.Empty(t, cmp.Diff(test.expected, details))
			}
		})
	}
}

func TestGetDatabaseDetails(t *testing.T) {
	renders := 0
	page := &fakePage{html: func() (string, error) {
		renders++
		if renders < 3 {
			return `<html><body><span class="server-access-key"></span></body></html>`, nil
		}
		return cloudDatabasePage, nil
	}}
	console, _ := setup(t, page)

	details, err := console.GetDatabaseDetails(testutil.Context(t), "db")
	require.NoError(t, err)
	require.Equal(t, "csk", details.ClientSecretKey)
	require.Equal(t, 3, renders)
	require.True(t, page.clicked(tableCell("db")))
	require.True(t, page.clicked(accessKeysTab))
	require.Equal(t, []string{"https://developer.vuforia.com" + databasesPath}, page.navigations)
}

func TestGetDatabaseDetailsTimesOut(t *testing.T) {
	page := &fakePage{}
	console, recorder := setup(t, page)

	_, err := console.GetDatabaseDetails(testutil.Context(t), "db")
	require.ErrorIs(t, err, wait.ErrTimeout)
	require.True(t, recorder.Has("broken", report_console_get_database_details))
}

func TestCreateCloudDatabase(t *testing.T) {
	page := &fakePage{}
	console, _ := setup(t, page)

	err := console.CreateCloudDatabase(testutil.Context(t), "db", "license's name")
	require.NoError(t, err)

	diff := cmp.Diff([]browser.Selector{
		addDatabaseButton,
		cloudRadioButton,
		cloudLicenseDropdown,
		licenseOption("license's name"),
		createDatabaseButton,
	}, page.clicks)
	require.Empty(t, diff)
	require.Equal(t, []string{"db"}, page.keysSentTo(databaseNameInput))
	require.Contains(t, licenseOption("license's name").Value, `normalize-space(.) = "license's name"`)
}

func TestCreateCloudDatabaseRequiresLicense(t *testing.T) {
	page := &fakePage{}
	console, _ := setup(t, page)

	err := console.CreateCloudDatabase(testutil.Context(t), "db", " ")
	require.ErrorIs(t, err, ErrMissingLicenseName)
	require.Empty(t, page.navigations)
}

func TestCreateVuMarkDatabase(t *testing.T) {
	page := &fakePage{}
	console, _ := setup(t, page)

	err := console.CreateVuMarkDatabase(testutil.Context(t), "db")
	require.NoError(t, err)
	require.True(t, page.clicked(vumarkRadioButton))
	require.False(t, page.clicked(cloudRadioButton))
	require.False(t, page.clicked(cloudLicenseDropdown))
}

func TestCreateDatabaseWaitsForDialogToClose(t *testing.T) {
	page := &fakePage{find: func(sel browser.Selector) ([]browser.Element, error) {
		if sel == databaseNameInput {
			return []browser.Element{{Tag: "input"}}, nil
		}
		return nil, nil
	}}
	console, _ := setup(t, page)

	err := console.CreateVuMarkDatabase(testutil.Context(t), "db")
	require.ErrorIs(t, err, wait.ErrTimeout)
	require.Contains(t, err.Error(), "close database dialog")
}
