package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type contextKey string

const contextKeyUser = contextKey("user")

func (app *application) serverError(w http.ResponseWriter, err error) {
	trace := fmt.Sprintf("%s\n%s", err.Error(), debug.Stack())
	app.errorLog.Output(2, trace)

	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func (app *application) notFound(w http.ResponseWriter) {
	app.clientError(w, http.StatusNotFound)
}

func (app *application) errorJSON(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func (app *application) getS3Session(endpoint, region string) (*session.Session, error) {
	return session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(app.s3id, app.s3secret, ""),
		Endpoint:    aws.String(endpoint),
		Region:      aws.String(region),
	})
}

// archiveSyncBatch keeps an off-device copy of an uploaded batch. Purely
// best-effort: archive failures are logged and never affect the sync
// outcome, which has already been committed.
func (app *application) archiveSyncBatch(batch []byte) {
	if app.s3id == "" || app.s3secret == "" {
		return
	}

	s, err := app.getS3Session(app.s3endpoint, app.s3region)
	if err != nil {
		app.errorLog.Printf("sync archive: %v", err)
		return
	}

	key := fmt.Sprintf("sync/%s.json", time.Now().Format("2006-01-02T15-04-05"))
	_, err = s3.New(s).PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(app.s3bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(batch),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		app.errorLog.Printf("sync archive: %v", err)
		return
	}

	app.infoLog.Printf("Sync batch archived to s3://%s/%s", app.s3bucket, key)
}
