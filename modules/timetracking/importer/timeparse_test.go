package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDatePair_TwelveAndTwentyFourHourAgree(t *testing.T) {
	twelve, err := ParseDatePair("2024-03-15", "2:30 PM", time.UTC)
	require.NoError(t, err)
	twentyFour, err := ParseDatePair("2024-03-15", "14:30:00", time.UTC)
	require.NoError(t, err)
	require.Equal(t, twentyFour, twelve)
	require.Equal(t, time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC), twelve)
}

func TestParseDatePair_SlashDate(t *testing.T) {
	got, err := ParseDatePair("03/15/2024", "09:05", time.UTC)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 15, 9, 5, 0, 0, time.UTC), got)
}

func TestParseDatePair_Timezone(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 2024-01-10 is CET (UTC+1).
	got, err := ParseDatePair("2024-01-10", "10:00:00", berlin)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), got)
}

func TestParseDatePair_LowercaseMeridiem(t *testing.T) {
	got, err := ParseDatePair("2024-03-15", "2:30 pm", time.UTC)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC), got)
}

func TestParseDatePair_BadInputQuotesBothFields(t *testing.T) {
	_, err := ParseDatePair("15.03.2024", "2:30 PM", time.UTC)
	require.Error(t, err)
	require.Equal(t, KindParse, KindOf(err))
	require.Contains(t, err.Error(), `"15.03.2024" "2:30 PM"`)

	_, err = ParseDatePair("2024-03-15", "half past two", time.UTC)
	require.Error(t, err)
	require.Contains(t, err.Error(), `"2024-03-15" "half past two"`)
}

func TestParseISO(t *testing.T) {
	got, err := ParseISO("2024-03-15T14:30:00Z")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC), got)

	got, err = ParseISO("2024-03-15T14:30:00+02:00")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC), got)

	_, err = ParseISO("2024-03-15 14:30")
	require.Error(t, err)
	require.Equal(t, KindParse, KindOf(err))
}

func TestParseDecimalHours(t *testing.T) {
	got, err := ParseDecimalHours("1.5")
	require.NoError(t, err)
	require.Equal(t, int64(5400), got)

	got, err = ParseDecimalHours("1,5")
	require.NoError(t, err)
	require.Equal(t, int64(5400), got)

	got, err = ParseDecimalHours("0.01")
	require.NoError(t, err)
	require.Equal(t, int64(36), got)

	_, err = ParseDecimalHours("ninety")
	require.Error(t, err)
	require.Equal(t, KindParse, KindOf(err))
}

func TestParseMoney(t *testing.T) {
	got, err := ParseMoney("12.50")
	require.NoError(t, err)
	require.Equal(t, int64(1250), got)

	got, err = ParseMoney("12,50")
	require.NoError(t, err)
	require.Equal(t, int64(1250), got)

	got, err = ParseMoney("100")
	require.NoError(t, err)
	require.Equal(t, int64(10000), got)
}
