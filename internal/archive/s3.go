package archive

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const reportPrefix = "reports/"

// Enabled reads REPORT_S3_ENABLED to decide whether processed report
// files are archived to S3. Defaults to false when unset: local
// deployments keep files on disk only.
func Enabled() bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv("REPORT_S3_ENABLED")))
	return v == "1" || v == "true" || v == "yes"
}

func bucket() string {
	if b := os.Getenv("REPORT_S3_BUCKET"); b != "" {
		return b
	}
	return "enertrack-reports"
}

func region() string {
	if r := os.Getenv("REPORT_S3_REGION"); r != "" {
		return r
	}
	return "eu-west-1"
}

// BuildKey places a processed file under reports/<kind>/<filename>.
func BuildKey(kind, filename string) string {
	kind = strings.Trim(strings.ToLower(kind), "/")
	return fmt.Sprintf("%s%s/%s", reportPrefix, kind, filename)
}

func detectContentType(data []byte) string {
	if len(data) == 0 {
		return "application/octet-stream"
	}
	if len(data) > 512 {
		return http.DetectContentType(data[:512])
	}
	return http.DetectContentType(data)
}

// Upload stores one processed report file in the archive bucket and
// returns its key.
func Upload(ctx context.Context, key string, body []byte) (string, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region()))
	if err != nil {
		return "", fmt.Errorf("load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket()),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(detectContentType(body)),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3 (bucket %s, key %s): %w", bucket(), key, err)
	}
	return key, nil
}
