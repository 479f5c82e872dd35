package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/domain"
)

func TestCSVSink_WritesDatasets(t *testing.T) {
	dir := t.TempDir()
	s := NewCSVSink(dir)

	campaign := "launch"
	require.NoError(t, s.WriteRegistration(&domain.Registration{
		Header:            domain.Header{EventID: 1, EventTimestamp: 1300000000},
		User:              "u1",
		Name:              "Mika",
		Country:           "RS",
		DeviceOS:          domain.DeviceAndroid,
		MarketingCampaign: &campaign,
	}))
	require.NoError(t, s.WriteLogin(&domain.Login{
		Header: domain.Header{EventID: 2, EventTimestamp: 1300000100},
		User:   "u1",
	}))
	require.NoError(t, s.WriteTransaction(&domain.Transaction{
		Header:   domain.Header{EventID: 3, EventTimestamp: 1300000200},
		User:     "u1",
		Amount:   10.99,
		Currency: domain.CurrencyUSD,
	}))
	require.NoError(t, s.WriteLogout(&domain.Logout{
		Header: domain.Header{EventID: 4, EventTimestamp: 1300000300},
		User:   "u1",
	}))
	require.NoError(t, s.WriteSession(domain.Session{
		UserID:         "u1",
		StartTimestamp: 1300000100,
		EndTimestamp:   1300000300,
		Duration:       200,
	}))
	require.NoError(t, s.Close())

	assert.Equal(t,
		"user_id,timestamp,name,country,device_os,marketing_campaign,event_id\n"+
			"u1,2011-03-13T07:06:40.000Z,Mika,RS,Android,launch,1\n",
		readFile(t, dir, "registrations.csv"))

	assert.Equal(t,
		"user_id,timestamp,event_id\n"+
			"u1,2011-03-13T07:08:20.000Z,2\n",
		readFile(t, dir, "logins.csv"))

	assert.Equal(t,
		"user_id,timestamp,amount,event_id\n"+
			"u1,2011-03-13T07:10:00.000Z,10.99,3\n",
		readFile(t, dir, "transactions.csv"))

	assert.Equal(t,
		"user_id,timestamp,event_id\n"+
			"u1,2011-03-13T07:11:40.000Z,4\n",
		readFile(t, dir, "logouts.csv"))

	assert.Equal(t,
		"user_id,start_date,end_date,duration\n"+
			"u1,2011-03-13T07:08:20.000Z,2011-03-13T07:11:40.000Z,200\n",
		readFile(t, dir, "sessions.csv"))
}

func TestCSVSink_NullCampaignIsEmptyField(t *testing.T) {
	dir := t.TempDir()
	s := NewCSVSink(dir)

	require.NoError(t, s.WriteRegistration(&domain.Registration{
		Header:   domain.Header{EventID: 1, EventTimestamp: 1300000000},
		User:     "u1",
		Name:     "Mika",
		Country:  "RS",
		DeviceOS: domain.DeviceWeb,
	}))
	require.NoError(t, s.Close())

	assert.Contains(t, readFile(t, dir, "registrations.csv"), "u1,2011-03-13T07:06:40.000Z,Mika,RS,Web,,1\n")
}

func TestCSVSink_NoRecordsNoFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewCSVSink(dir)
	require.NoError(t, s.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}
