package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/robfig/cron/v3"

	"github.com/crediruta/cobrador/pkg/models/sqlite"
	"github.com/crediruta/cobrador/pkg/printer"
	"github.com/crediruta/cobrador/pkg/remote"
	"github.com/crediruta/cobrador/pkg/sql/queries"
)

type application struct {
	errorLog     *log.Logger
	infoLog      *log.Logger
	receiptLog   *log.Logger
	secret       []byte
	company      string
	companyPhone string
	printerName  string
	s3id         string
	s3secret     string
	s3endpoint   string
	s3region     string
	s3bucket     string
	runtimeEnv   string
	downloading  atomic.Bool
	user         *sqlite.UserModel
	loan         *sqlite.LoanModel
	collection   *sqlite.CollectionModel
	sync         *sqlite.SyncModel
	remote       *remote.Client
	printer      *printer.Manager
}

func main() {
	addr := flag.String("addr", ":4100", "HTTP network address")
	dsn := flag.String("dsn", "cobrador.db", "SQLite data source name")
	server := flag.String("server", "https://api.crediruta.app", "Head-office server base URL")
	secret := flag.String("secret", "cobrador", "Secret key for generating jwts")
	company := flag.String("company", "Crediruta S.A.", "Company name printed on receipts")
	companyPhone := flag.String("phone", "", "Company phone printed on receipts")
	printerName := flag.String("printer", "POS-5805", "Paired Bluetooth printer name")
	syncCron := flag.String("synccron", "", "Cron schedule for background sync attempts (empty disables)")
	s3id := flag.String("id", "", "AWS S3 identification")
	s3secret := flag.String("s3secret", "", "AWS S3 secret")
	s3endpoint := flag.String("endpoint", "sgp1.digitaloceanspaces.com", "AWS S3 endpoint")
	s3region := flag.String("region", "sgp1", "AWS S3 region")
	s3bucket := flag.String("bucket", "crediruta", "AWS S3 bucket for sync archives")
	runtimeEnv := flag.String("renv", "prod", "Runtime environment mode")
	logPath := flag.String("logpath", "./logs/", "Path to create or alter log files")
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	receiptLogFile, err := openLogFile(*logPath + time.Now().Format("2006-01-02") + "_receipt.log")
	if err != nil {
		fmt.Println("Failed to open receipt log file")
		os.Exit(1)
	}

	receiptLog := log.New(receiptLogFile, "", log.Ldate|log.Ltime)

	db, err := openDB(*dsn)
	if err != nil {
		errorLog.Fatal(err)
	}

	defer db.Close()

	notifier := &sqlite.Notifier{}
	client := remote.NewClient(*server)

	app := &application{
		errorLog:     errorLog,
		infoLog:      infoLog,
		receiptLog:   receiptLog,
		secret:       []byte(*secret),
		company:      *company,
		companyPhone: *companyPhone,
		printerName:  *printerName,
		s3id:         *s3id,
		s3secret:     *s3secret,
		s3endpoint:   *s3endpoint,
		s3region:     *s3region,
		s3bucket:     *s3bucket,
		runtimeEnv:   *runtimeEnv,
		user:         &sqlite.UserModel{DB: db},
		loan:         &sqlite.LoanModel{DB: db, Notifier: notifier},
		collection:   &sqlite.CollectionModel{DB: db, Notifier: notifier},
		sync:         &sqlite.SyncModel{DB: db, Uploader: client, Notifier: notifier},
		remote:       client,
		printer:      printer.NewManager(&printer.RFCOMMDialer{Devices: &printer.BlueZRegistry{}}, errorLog),
	}

	if *syncCron != "" {
		c := cron.New()
		_, err := c.AddFunc(*syncCron, func() {
			if _, err := app.runSync(); err != nil {
				infoLog.Printf("Scheduled sync skipped: %v", err)
			}
		})
		if err != nil {
			errorLog.Fatal(err)
		}
		c.Start()
		infoLog.Printf("Background sync scheduled: %s", *syncCron)
	}

	srv := &http.Server{
		Addr:     *addr,
		ErrorLog: errorLog,
		Handler:  app.routes(),
	}

	infoLog.Printf("Starting server on %s", *addr)
	err = srv.ListenAndServe()
	errorLog.Fatal(err)
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if _, err = db.Exec(queries.SCHEMA); err != nil {
		return nil, err
	}
	return db, err
}

func openLogFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}
