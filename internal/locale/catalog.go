package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Label keys double as the English text.
const (
	LabelDashboard        = "Dashboard"
	LabelExpenses         = "Expenses"
	LabelBudgets          = "Budgets"
	LabelCategories       = "Categories"
	LabelAnalytics        = "Analytics"
	LabelCalculator       = "Calculator"
	LabelSettings         = "Settings"
	LabelImport           = "Import"
	LabelExport           = "Export"
	LabelTotalExpenses    = "Total Expenses"
	LabelMonthlyExpenses  = "Monthly Expenses"
	LabelBudgetRemaining  = "Budget Remaining"
	LabelActiveCategories = "Active Categories"
	LabelRecentExpenses   = "Recent Expenses"
	LabelByCategory       = "Expenses by Category"
	LabelAmount           = "Amount"
	LabelCategory         = "Category"
	LabelDescription      = "Description"
	LabelDate             = "Date"
	LabelNotes            = "Notes"
	LabelBudget           = "Budget"
	LabelName             = "Name"
	LabelPeriod           = "Period"
	LabelIcon             = "Icon"
	LabelColor            = "Color"
	LabelOverBudget       = "Over budget!"
	LabelNoBudget         = "No budget"
	LabelHistory          = "History"
	LabelTotal            = "Total"
	LabelLanguage         = "Language"
	LabelCurrency         = "Currency"
	LabelDateFormat       = "Date Format"
	LabelNotifications    = "Notifications"
	LabelDarkMode         = "Dark Mode"
	LabelWeekly           = "Weekly"
	LabelMonthly          = "Monthly"
	LabelQuarterly        = "Quarterly"
	LabelYearly           = "Yearly"
	LabelShowHidden       = "Show Hidden"
	LabelHideHidden       = "Hide Hidden"
	LabelTheme            = "Theme"
	LabelSpent            = "Spent"
	LabelRemaining        = "Remaining"
	LabelThisWeek         = "This Week"
	LabelLastWeek         = "Last Week"
	LabelThisMonth        = "This Month"
	LabelLastMonth        = "Last Month"
	LabelAllTime          = "All Time"
	LabelCustomRange      = "Custom Range"
	LabelQuit             = "Quit"
	LabelNoExpenses       = "No expenses yet"
)

var arabic = map[string]string{
	LabelDashboard:        "لوحة التحكم",
	LabelExpenses:         "المصروفات",
	LabelBudgets:          "الميزانيات",
	LabelCategories:       "الفئات",
	LabelAnalytics:        "التقارير",
	LabelCalculator:       "الحاسبة",
	LabelSettings:         "الإعدادات",
	LabelImport:           "استيراد",
	LabelExport:           "تصدير",
	LabelTotalExpenses:    "إجمالي النفقات",
	LabelMonthlyExpenses:  "النفقات الشهرية",
	LabelBudgetRemaining:  "الميزانية المتبقية",
	LabelActiveCategories: "الفئات النشطة",
	LabelRecentExpenses:   "النفقات الأخيرة",
	LabelByCategory:       "النفقات حسب الفئة",
	LabelAmount:           "المبلغ",
	LabelCategory:         "الفئة",
	LabelDescription:      "الوصف",
	LabelDate:             "التاريخ",
	LabelNotes:            "ملاحظات",
	LabelBudget:           "الميزانية",
	LabelName:             "الاسم",
	LabelPeriod:           "الفترة",
	LabelIcon:             "الأيقونة",
	LabelColor:            "اللون",
	LabelOverBudget:       "تجاوزت الميزانية!",
	LabelNoBudget:         "بدون ميزانية",
	LabelHistory:          "السجل",
	LabelTotal:            "المجموع",
	LabelLanguage:         "اللغة",
	LabelCurrency:         "العملة",
	LabelDateFormat:       "تنسيق التاريخ",
	LabelNotifications:    "الإشعارات",
	LabelDarkMode:         "الوضع الداكن",
	LabelWeekly:           "أسبوعي",
	LabelMonthly:          "شهري",
	LabelQuarterly:        "ربع سنوي",
	LabelYearly:           "سنوي",
	LabelShowHidden:       "إظهار المخفية",
	LabelHideHidden:       "إخفاء المخفية",
	LabelTheme:            "المظهر",
	LabelSpent:            "المصروف",
	LabelRemaining:        "المتبقي",
	LabelThisWeek:         "هذا الأسبوع",
	LabelLastWeek:         "الأسبوع الماضي",
	LabelThisMonth:        "هذا الشهر",
	LabelLastMonth:        "الشهر الماضي",
	LabelAllTime:          "كل الأوقات",
	LabelCustomRange:      "فترة مخصصة",
	LabelQuit:             "خروج",
	LabelNoExpenses:       "لا توجد مصروفات بعد",
}

func init() {
	for key, text := range arabic {
		if err := message.SetString(language.Arabic, key, text); err != nil {
			panic(err)
		}

		if err := message.SetString(language.English, key, key); err != nil {
			panic(err)
		}
	}
}
