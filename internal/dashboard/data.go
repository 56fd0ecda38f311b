package dashboard

// Stat is one headline tile.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  string `json:"icon"`
}

// Transaction is a row of the owner's recent sales list.
type Transaction struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Amount   int64  `json:"amount"`
	Time     string `json:"time"`
}

// Insight is a short generated remark about the store.
type Insight struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

// Tenant is a store on the platform.
type Tenant struct {
	Name   string `json:"name"`
	Owner  string `json:"owner"`
	Plan   string `json:"plan"`
	Status string `json:"status"`
}

// LogEntry is a line of the admin activity feed.
type LogEntry struct {
	Time  string `json:"time"`
	Event string `json:"event"`
	Icon  string `json:"icon"`
}

var ownerStats = []Stat{
	{Label: "Penjualan Hari Ini", Value: "Rp 2.4M", Icon: "payments"},
	{Label: "Transaksi", Value: "47", Icon: "receipt_long"},
	{Label: "Pelanggan Baru", Value: "12", Icon: "person_add"},
	{Label: "Produk Terjual", Value: "156", Icon: "inventory"},
}

var recentTransactions = []Transaction{
	{ID: "TRX-001", Customer: "Budi Santoso", Amount: 125000, Time: "14:32"},
	{ID: "TRX-002", Customer: "Sari Dewi", Amount: 85000, Time: "14:15"},
	{ID: "TRX-003", Customer: "Andi Pratama", Amount: 210000, Time: "13:58"},
	{ID: "TRX-004", Customer: "Guest", Amount: 45000, Time: "13:42"},
}

var insights = []Insight{
	{Icon: "trending_up", Text: "Penjualan naik 15% dari minggu lalu"},
	{Icon: "inventory_2", Text: "Stok Kopi Susu tinggal 10 unit"},
	{Icon: "schedule", Text: "Jam ramai: 11:00 - 14:00"},
}

// weeklySales is the bar height of each of the last seven days, in percent.
var weeklySales = []int{40, 65, 45, 80, 60, 90, 75}

var topProducts = []string{"Kopi Susu Gula Aren", "Ayam Goreng", "Es Teh Manis"}

var adminStats = []Stat{
	{Label: "Total Tenant", Value: "24", Icon: "store"},
	{Label: "Tenant Aktif", Value: "21", Icon: "check_circle"},
	{Label: "User Terdaftar", Value: "156", Icon: "group"},
	{Label: "Pendapatan", Value: "Rp 12.5M", Icon: "payments"},
}

var tenants = []Tenant{
	{Name: "Warung Kopi Pak Budi", Owner: "Budi Santoso", Plan: "Pro", Status: "active"},
	{Name: "Bakso Mas Joko", Owner: "Joko Widodo", Plan: "Basic", Status: "active"},
	{Name: "Toko Roti Manis", Owner: "Sari Dewi", Plan: "Pro", Status: "active"},
	{Name: "Ayam Geprek Bu Tini", Owner: "Tini Sumarni", Plan: "Basic", Status: "expired"},
}

var activityLog = []LogEntry{
	{Time: "14:32", Event: "Tenant baru: Kedai Nasi Uduk", Icon: "add_business"},
	{Time: "14:15", Event: "User login: admin@demo.com", Icon: "person"},
	{Time: "13:58", Event: "Payment: Warung Kopi", Icon: "payments"},
	{Time: "13:42", Event: "System backup completed", Icon: "backup"},
}
