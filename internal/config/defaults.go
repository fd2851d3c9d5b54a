package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for configuration
const (
	DefaultLogLevel         = "info"
	DefaultValueInputOption = "RAW"
	DefaultRequestTimeout   = 30 * time.Second
	DefaultTimezone         = "Local"

	// SheetSessionRefreshTask is the scheduler key of the session refresh task.
	SheetSessionRefreshTask     = "sheet_session_refresh"
	DefaultSheetRefreshSchedule = "0 */30 * * * *"
)

// Default bot messages
const (
	DefaultWelcomeMsg   = "Halo! Saya adalah bot. Kirimkan laporan yang dimulai dengan '/'. Ketik /help untuk melihat panduan."
	DefaultSavedMsg     = "Laporan Anda telah disimpan!"
	DefaultSaveErrorMsg = "Terjadi kesalahan saat menyimpan laporan: {detail}"
	DefaultNotReportMsg = "Laporan harus dimulai dengan '/'."

	// DefaultHelpMsg keeps the indentation the guide has always been sent with.
	DefaultHelpMsg = "\n" +
		"    **Panduan Laporan untuk Bot**:\n" +
		"\n" +
		"    1. **Format laporan**:\n" +
		"       - Laporan dimulai dengan tanda `/`.\n" +
		"       - Format yang akan diproses: `/STATUS ORDER/WORK ORDER/NAME ORDER/UPDATE DETAIL/NAME TEKNISI`.\n" +
		"       - Setiap laporan sebaiknya dipisahkan dengan baris baru jika mengirim beberapa laporan dalam satu pesan.\n" +
		"\n" +
		"    2. **Contoh Laporan**:\n" +
		"       - Laporan 1:\n" +
		"         ```\n" +
		"         /UPDATE/USULAN/RELOK TIANG KAPASAN/TIANG GESER 20M KEBUTUHAN MATERIAL TIANG 7 1PC, KABEL 100M, UC 2PC, AKSESORIS 4 SET/JONI\n" +
		"         ```\n" +
		"       - Laporan 2:\n" +
		"         ```\n" +
		"         /CLOSE/PREVENTIF TIS/20SBY014 - 20SBY144/DONE PREVENTIF/DIDIK\n" +
		"         ```\n" +
		"\n" +
		"    3. **Cara Mengirimkan Laporan**:\n" +
		"       - Cukup kirimkan laporan dalam format di atas. Setiap laporan akan diproses dan disimpan.\n" +
		"\n" +
		"    Semoga ini membantu.\n" +
		"    "
)

// setDefaults registers a default for every key so that viper also resolves
// keys that are only provided through the environment.
func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.token", "")

	v.SetDefault("sheets.credentials_file", "")
	v.SetDefault("sheets.spreadsheet_name", "")
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.worksheet", "")
	v.SetDefault("sheets.value_input_option", DefaultValueInputOption)
	v.SetDefault("sheets.request_timeout", DefaultRequestTimeout)

	v.SetDefault("reports.timezone", DefaultTimezone)
	v.SetDefault("reports.skip_empty_lines", false)

	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", false)

	v.SetDefault("messages.welcome", DefaultWelcomeMsg)
	v.SetDefault("messages.help", DefaultHelpMsg)
	v.SetDefault("messages.saved", DefaultSavedMsg)
	v.SetDefault("messages.save_error", DefaultSaveErrorMsg)
	v.SetDefault("messages.not_report", DefaultNotReportMsg)

	v.SetDefault("scheduler.tasks", map[string]any{
		SheetSessionRefreshTask: map[string]any{
			"enabled":  true,
			"schedule": DefaultSheetRefreshSchedule,
		},
	})
}
