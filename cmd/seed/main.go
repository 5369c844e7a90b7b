// Command seed populates the airtime and data catalogs. It is idempotent
// at the table level: a non-empty catalog is left untouched.
package main

import (
	"log"

	"xtradata/internal/config"
	"xtradata/internal/db"
	"xtradata/internal/money"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type airtimeSeed struct {
	network  string
	amount   int64 // face value in naira
	price    string
	discount int
}

type dataSeed struct {
	network       string
	category      string
	size          string
	sizeInMB      int
	price         string
	validity      string
	discount      int
	isBestValue   bool
	isMostPopular bool
}

var airtimeSeeds = []airtimeSeed{
	{"MTN", 100, "98.00", 2},
	{"MTN", 200, "196.00", 2},
	{"MTN", 500, "490.00", 2},
	{"MTN", 1000, "970.00", 3},
	{"MTN", 2000, "1940.00", 3},
	{"MTN", 5000, "4800.00", 4},
	{"Glo", 100, "98.00", 2},
	{"Glo", 200, "196.00", 2},
	{"Glo", 500, "485.00", 3},
	{"Glo", 1000, "960.00", 4},
	{"Glo", 2000, "1920.00", 4},
	{"Glo", 5000, "4750.00", 5},
	{"Airtel", 100, "98.00", 2},
	{"Airtel", 200, "196.00", 2},
	{"Airtel", 500, "490.00", 2},
	{"Airtel", 1000, "970.00", 3},
	{"Airtel", 2000, "1940.00", 3},
	{"Airtel", 5000, "4850.00", 3},
	{"9mobile", 100, "98.00", 2},
	{"9mobile", 200, "196.00", 2},
	{"9mobile", 500, "490.00", 2},
	{"9mobile", 1000, "970.00", 3},
	{"9mobile", 2000, "1940.00", 3},
	{"9mobile", 5000, "4850.00", 3},
}

var dataSeeds = []dataSeed{
	{"MTN", "SME Data", "500MB", 500, "120.00", "30 days", 5, false, true},
	{"MTN", "SME Data", "1GB", 1024, "240.00", "30 days", 5, true, true},
	{"MTN", "SME Data", "2GB", 2048, "480.00", "30 days", 5, true, false},
	{"MTN", "SME Data", "3GB", 3072, "720.00", "30 days", 5, false, false},
	{"MTN", "SME Data", "5GB", 5120, "1200.00", "30 days", 5, true, true},
	{"MTN", "SME Data", "10GB", 10240, "2400.00", "30 days", 6, false, false},
	{"MTN", "Direct Data", "1GB", 1024, "280.00", "7 days", 3, false, false},
	{"MTN", "Direct Data", "2GB", 2048, "560.00", "30 days", 3, false, false},
	{"MTN", "Direct Data", "6GB", 6144, "1500.00", "7 days", 4, false, false},
	{"MTN", "Direct Data", "40GB", 40960, "10000.00", "30 days", 4, false, false},
	{"MTN", "Gifting", "1.5GB", 1536, "900.00", "30 days", 2, false, false},
	{"MTN", "Gifting", "3.5GB", 3584, "1800.00", "30 days", 2, false, false},
	{"Glo", "SME Data", "1GB", 1024, "200.00", "30 days", 8, true, true},
	{"Glo", "SME Data", "2GB", 2048, "400.00", "30 days", 8, true, false},
	{"Glo", "SME Data", "3GB", 3072, "600.00", "30 days", 8, false, false},
	{"Glo", "SME Data", "5GB", 5120, "1000.00", "30 days", 9, true, true},
	{"Glo", "SME Data", "10GB", 10240, "2000.00", "30 days", 9, false, false},
	{"Glo", "Gifting", "1GB", 1024, "250.00", "14 days", 5, false, false},
	{"Glo", "Gifting", "5GB", 5120, "1250.00", "30 days", 5, false, false},
	{"Airtel", "SME Data", "750MB", 750, "300.00", "14 days", 6, false, false},
	{"Airtel", "SME Data", "1GB", 1024, "230.00", "30 days", 7, true, true},
	{"Airtel", "SME Data", "2GB", 2048, "460.00", "30 days", 7, false, false},
	{"Airtel", "SME Data", "5GB", 5120, "1150.00", "30 days", 7, true, false},
	{"Airtel", "SME Data", "10GB", 10240, "2300.00", "30 days", 8, false, false},
	{"Airtel", "Corporate Gifting", "100GB", 102400, "20000.00", "30 days", 10, false, false},
	{"Airtel", "Corporate Gifting", "200GB", 204800, "38000.00", "30 days", 12, true, false},
	{"9mobile", "SME Data", "500MB", 500, "150.00", "30 days", 5, false, false},
	{"9mobile", "SME Data", "1.5GB", 1536, "450.00", "30 days", 6, true, true},
	{"9mobile", "SME Data", "2GB", 2048, "550.00", "30 days", 6, false, false},
	{"9mobile", "SME Data", "3GB", 3072, "800.00", "30 days", 6, false, false},
	{"9mobile", "SME Data", "11GB", 11264, "2800.00", "30 days", 7, false, false},
	{"9mobile", "Direct Data", "1GB", 1024, "290.00", "7 days", 4, false, false},
	{"9mobile", "Direct Data", "15GB", 15360, "3500.00", "30 days", 5, false, false},
}

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	if err := seedAirtime(database); err != nil {
		log.Fatalf("failed to seed airtime plans: %v", err)
	}
	if err := seedData(database); err != nil {
		log.Fatalf("failed to seed data plans: %v", err)
	}
	log.Println("catalog seeding completed")
}

func seedAirtime(database *sqlx.DB) error {
	var count int
	if err := database.Get(&count, `SELECT COUNT(1) FROM airtime_plans`); err != nil {
		return err
	}
	if count > 0 {
		log.Println("airtime plans already seeded, skipping")
		return nil
	}
	for _, seed := range airtimeSeeds {
		price, err := money.ParseMinor(seed.price)
		if err != nil {
			return err
		}
		if _, err := database.Exec(`
			INSERT INTO airtime_plans (id, network, amount, price, discount)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.NewString(), seed.network, seed.amount*100, price, seed.discount); err != nil {
			return err
		}
	}
	log.Printf("seeded %d airtime plans", len(airtimeSeeds))
	return nil
}

func seedData(database *sqlx.DB) error {
	var count int
	if err := database.Get(&count, `SELECT COUNT(1) FROM data_plans`); err != nil {
		return err
	}
	if count > 0 {
		log.Println("data plans already seeded, skipping")
		return nil
	}
	for _, seed := range dataSeeds {
		price, err := money.ParseMinor(seed.price)
		if err != nil {
			return err
		}
		if _, err := database.Exec(`
			INSERT INTO data_plans (id, network, category, size, size_in_mb, price, validity, discount, is_best_value, is_most_popular)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, uuid.NewString(), seed.network, seed.category, seed.size, seed.sizeInMB, price, seed.validity, seed.discount, seed.isBestValue, seed.isMostPopular); err != nil {
			return err
		}
	}
	log.Printf("seeded %d data plans", len(dataSeeds))
	return nil
}
