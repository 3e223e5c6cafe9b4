package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/UtsavYadav1/CareerBERT/internal/bootstrap"
	"github.com/UtsavYadav1/CareerBERT/internal/server"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/config"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/storage/db"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/telemetry"
)

var (
	initOnce  sync.Once
	initErr   error
	ginLambda *ginadapter.GinLambdaV2
)

func initApp() {
	cfg := config.Load()
	gin.SetMode(gin.ReleaseMode)
	opts := db.DefaultServerOptions()
	opts.MaxOpenConns = 2
	opts.MaxIdleConns = 2
	app, err := bootstrap.Build(context.Background(), cfg, opts)
	if err != nil {
		initErr = err
		return
	}
	ginLambda = ginadapter.NewV2(server.NewEngine(server.New(app.ServerDeps())))
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{"error": initErr})
		body, _ := json.Marshal(map[string]string{"error": "bootstrap failed"})
		return events.APIGatewayV2HTTPResponse{
			StatusCode: 500,
			Body:       string(body),
			Headers:    map[string]string{"Content-Type": "application/json"},
		}, initErr
	}
	return ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	lambda.Start(handler)
}
