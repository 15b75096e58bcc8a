package reportControllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arcadia-soft/gamestore-api/models"
)

// -------- Report Rows --------

type TopGameRow struct {
	Title     string          `json:"title"`
	Genre     string          `json:"genre"`
	UnitsSold int64           `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type SalesRow struct {
	OrderID   uint            `json:"order_id"`
	Customer  string          `json:"customer"`
	ItemCount int64           `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

type SalesReport struct {
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	TotalOrders int             `json:"total_orders"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Orders      []SalesRow      `json:"orders"`
}

// -------- Core Queries --------

// TopGames returns the best-selling games by units, with revenue summed
// from captured order-item prices. Repricing a game never rewrites
// past reports.
func TopGames(db *gorm.DB, limit int) ([]TopGameRow, error) {
	var rows []TopGameRow
	err := db.Model(&models.OrderItem{}).
		Select("games.title AS title, genres.name AS genre, "+
			"SUM(order_items.quantity) AS units_sold, "+
			"SUM(order_items.price * order_items.quantity) AS revenue").
		Joins("JOIN games ON games.id = order_items.game_id").
		Joins("JOIN genres ON genres.id = games.genre_id").
		Group("games.id, games.title, genres.name").
		Order("units_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// SalesSince aggregates completed orders created on or after the cutoff.
func SalesSince(db *gorm.DB, since time.Time) (SalesReport, error) {
	var rows []SalesRow
	err := db.Model(&models.Order{}).
		Select("orders.id AS order_id, users.name AS customer, "+
			"orders.total_amount AS total, orders.created_at AS created_at, "+
			"(SELECT COALESCE(SUM(quantity), 0) FROM order_items WHERE order_items.order_id = orders.id) AS item_count").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Joins("JOIN users ON users.id = customers.user_id").
		Where("orders.status = ? AND orders.created_at >= ?", models.OrderStatusCompleted, since).
		Order("orders.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return SalesReport{}, err
	}

	report := SalesReport{
		PeriodStart: since,
		PeriodEnd:   time.Now(),
		TotalOrders: len(rows),
		TotalAmount: decimal.Zero,
		Orders:      rows,
	}
	for _, row := range rows {
		report.TotalAmount = report.TotalAmount.Add(row.Total)
	}
	return report, nil
}

// -------- Handlers --------

// GET /admin/reports/top-games?format=json|csv|xlsx
func TopGamesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := TopGames(db, 10)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
			return
		}

		headers := []string{"Title", "Genre", "Units Sold", "Revenue"}
		cells := make([][]string, 0, len(rows))
		for _, r := range rows {
			cells = append(cells, []string{
				r.Title, r.Genre,
				strconv.FormatInt(r.UnitsSold, 10),
				r.Revenue.StringFixed(2),
			})
		}

		switch c.Query("format") {
		case "csv":
			writeCSV(c, "top_games_report.csv", headers, cells)
		case "xlsx":
			writeXLSX(c, "top_games_report.xlsx", "Top Games", headers, cells)
		default:
			c.JSON(http.StatusOK, rows)
		}
	}
}

// GET /admin/reports/weekly-sales?format=json|csv|xlsx&days=7
func WeeklySalesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := 7
		if d := c.Query("days"); d != "" {
			parsed, err := strconv.Atoi(d)
			if err != nil || parsed < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days"})
				return
			}
			days = parsed
		}

		report, err := SalesSince(db, time.Now().AddDate(0, 0, -days))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
			return
		}

		headers := []string{"Date", "Order #", "Customer", "Items", "Total"}
		cells := make([][]string, 0, len(report.Orders))
		for _, r := range report.Orders {
			cells = append(cells, []string{
				r.CreatedAt.Format("2006-01-02 15:04"),
				strconv.FormatUint(uint64(r.OrderID), 10),
				r.Customer,
				strconv.FormatInt(r.ItemCount, 10),
				r.Total.StringFixed(2),
			})
		}

		switch c.Query("format") {
		case "csv":
			writeCSV(c, "weekly_sales_report.csv", headers, cells)
		case "xlsx":
			writeXLSX(c, "weekly_sales_report.xlsx", "Weekly Sales", headers, cells)
		default:
			c.JSON(http.StatusOK, report)
		}
	}
}
