package services

import (
	"fmt"
	"strings"

	"github.com/ashmitsharp/moneylens-api/internal/aggregate"
	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/shopspring/decimal"
)

const (
	LocaleID = "id"
	LocaleEN = "en"
)

// NormalizeLocale returns "en" or "id"; anything unknown falls back to "id"
func NormalizeLocale(locale string) string {
	if strings.EqualFold(strings.TrimSpace(locale), LocaleEN) {
		return LocaleEN
	}
	return LocaleID
}

const parseSystemPromptID = `Kamu adalah asisten keuangan yang ahli dalam mengekstrak transaksi dari teks atau struk belanja.

Aturan parsing:
- "k", "rb", "ribu" = ribuan (contoh: 20k = 20000, 5rb = 5000)
- "jt", "juta" = jutaan (contoh: 1.5jt = 1500000)
- Pisahkan item yang berbeda menjadi transaksi terpisah
- Jika tidak ada tipe yang disebutkan, asumsikan sebagai 'expense'
- Untuk struk belanja, ekstrak setiap item baris sebagai transaksi terpisah
- Kapitalisasi huruf pertama deskripsi

Kategori EXPENSE yang tersedia (gunakan key persis seperti ini):
- food: makanan, minuman, restoran, kafe, makan
- social-life: hangout, gathering, teman, sosial
- apparel: pakaian, baju, celana, sepatu
- culture: budaya, museum, konser, teater
- beauty: kecantikan, skincare, makeup, salon
- health: obat, dokter, rumah sakit, vitamin
- education: pendidikan, kursus, buku, sekolah
- gift: hadiah, kado
- bill-subscription: tagihan, listrik, air, internet, pulsa, langganan, spotify, netflix
- house-hold: rumah tangga, perabotan, cleaning
- transportation: bensin, grab, gojek, taksi, parkir, tol, ojol
- other: lainnya

Kategori INCOME yang tersedia:
- work: gaji, salary
- freelance: freelance, project
- bonus: bonus, THR
- gift-income: hadiah uang
- interest: bunga bank
- investment: investasi, dividen`

const parseSystemPromptEN = `You are a financial assistant expert in extracting transactions from text or receipts.

Parsing rules:
- "k", "rb", "ribu" = thousands (e.g., 20k = 20000, 5rb = 5000)
- "jt", "juta" = millions (e.g., 1.5jt = 1500000)
- Separate different items into individual transactions
- If no type is mentioned, assume 'expense'
- For receipts, extract each line item as a separate transaction
- Capitalize the first letter of each description

Available EXPENSE categories (use these exact keys):
- food: food, drinks, restaurants, cafes, meals
- social-life: hangouts, gatherings, friends, social
- apparel: clothes, shoes, fashion
- culture: culture, museums, concerts, theater
- beauty: beauty, skincare, makeup, salon
- health: medicine, doctor, hospital, vitamins
- education: education, courses, books, school
- gift: gifts, presents
- bill-subscription: bills, utilities, electricity, water, internet, phone credit, subscriptions
- house-hold: household items, furniture, cleaning
- transportation: gas, ride-sharing, taxi, parking, toll
- other: miscellaneous

Available INCOME categories:
- work: salary, wages
- freelance: freelance, projects
- bonus: bonus, rewards
- gift-income: monetary gifts
- interest: bank interest
- investment: investments, dividends`

const jsonOutputRules = `

Return ONLY valid raw JSON of the form {"transactions":[{"description":"...","amount":0,"type":"expense","category_suggestion":"food"}]}.
Do NOT wrap the response in code fences.`

func parseSystemPrompt(locale string) string {
	if locale == LocaleEN {
		return parseSystemPromptEN + jsonOutputRules
	}
	return parseSystemPromptID + jsonOutputRules
}

func parseTextPrompt(locale, text string) string {
	if locale == LocaleEN {
		return fmt.Sprintf("Extract transactions from this text: %q", text)
	}
	return fmt.Sprintf("Ekstrak transaksi dari teks ini: %q", text)
}

func parseImagePrompt(locale string) string {
	if locale == LocaleEN {
		return "Extract all transaction items from this receipt/image."
	}
	return "Ekstrak semua item transaksi dari struk/gambar ini."
}

const summarySystemPromptID = `Kamu adalah asisten keuangan pribadi. Berikan ringkasan dan insight dari data transaksi keuangan pengguna dalam Bahasa Indonesia.
Ringkasanmu harus:
- Singkat dan mudah dipahami (maksimal 3-4 paragraf)
- Menyoroti pola pengeluaran utama
- Mengidentifikasi kategori pengeluaran terbesar
- Memberikan 1-2 saran praktis untuk pengelolaan keuangan yang lebih baik
- Format dengan bullet points jika sesuai`

const summarySystemPromptEN = `You are a personal finance assistant. Provide a summary and insights from the user's financial transaction data.
Your summary should be:
- Concise and easy to understand (max 3-4 paragraphs)
- Highlight key spending patterns
- Identify top spending categories
- Provide 1-2 actionable tips for better financial management
- Format with bullet points where appropriate`

func summarySystemPrompt(locale string) string {
	if locale == LocaleEN {
		return summarySystemPromptEN
	}
	return summarySystemPromptID
}

// SummaryInput is the aggregated month handed to the summary prompt
type SummaryInput struct {
	Locale       string
	PeriodLabel  string // e.g. "March 2024"
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Categories   []aggregate.CategoryTotal
	Count        int
}

func summaryUserPrompt(in SummaryInput) string {
	net := in.TotalIncome.Sub(in.TotalExpense)

	var breakdown strings.Builder
	for _, ct := range in.Categories {
		label := "Expense"
		if ct.Type == models.Income {
			label = "Income"
		}
		fmt.Fprintf(&breakdown, "- %s: %s %s\n", ct.Name, label, ct.Total.StringFixed(2))
	}

	if in.Locale == LocaleEN {
		return fmt.Sprintf(`Here's my financial transaction summary for %s:

Total Income: %s
Total Expense: %s
Net Balance: %s

Category Breakdown:
%s
Total Transactions: %d

Please provide a summary and insights for this month.`,
			in.PeriodLabel, in.TotalIncome.StringFixed(2), in.TotalExpense.StringFixed(2), net.StringFixed(2),
			breakdown.String(), in.Count)
	}

	return fmt.Sprintf(`Berikut ringkasan transaksi keuangan saya untuk %s:

Total Pemasukan: %s
Total Pengeluaran: %s
Saldo Bersih: %s

Rincian per Kategori:
%s
Total Transaksi: %d

Berikan ringkasan dan insight untuk bulan ini.`,
		in.PeriodLabel, in.TotalIncome.StringFixed(2), in.TotalExpense.StringFixed(2), net.StringFixed(2),
		breakdown.String(), in.Count)
}

// EmptySummary is returned without calling the model when the month has no rows
func EmptySummary(locale string) string {
	if locale == LocaleEN {
		return "No transactions found for this month."
	}
	return "Tidak ada transaksi untuk bulan ini."
}
