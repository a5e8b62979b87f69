// Package backup uploads a snapshot of the vault to S3.
package backup

import (
	"fmt"
	"os"
	"path"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/quillmd/quill/internal/state"
)

func NewCmdBackup(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backup",
		Aliases: []string{"bk"},
		Short:   "Upload a vault snapshot to S3.",
		Long: `This command flushes the vault and uploads the vault file to the
  configured S3 bucket. Credentials resolve through the standard AWS
  credential chain (environment, shared config, instance role).`,
		Example: "quill backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s)
		},
	}

	cmd.Flags().String("bucket", "", "Override the configured bucket")
	return cmd
}

func run(cmd *cobra.Command, s *state.State) error {
	ctx := cmd.Context()

	bucket := s.Config.Backup.Bucket
	if override, _ := cmd.Flags().GetString("bucket"); override != "" {
		bucket = override
	}
	if bucket == "" {
		return fmt.Errorf(
			"no backup bucket configured. Set backup.bucket in the config or pass --bucket",
		)
	}

	if err := s.Store.Flush(ctx); err != nil {
		return err
	}

	f, err := os.Open(s.Config.VaultFile)
	if err != nil {
		return fmt.Errorf("opening vault %s: %w", s.Config.VaultFile, err)
	}
	defer f.Close()

	opts := []func(*awsconfig.LoadOptions) error{}
	if s.Config.Backup.Region != "" {
		opts = append(opts, awsconfig.WithRegion(s.Config.Backup.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("loading AWS config: %w", err)
	}

	key := path.Join(
		s.Config.Backup.Prefix,
		fmt.Sprintf("vault-%s.json", time.Now().UTC().Format("20060102-150405")),
	)

	uploader := manager.NewUploader(s3.NewFromConfig(awsCfg))
	result, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("uploading to s3://%s/%s: %w", bucket, key, err)
	}

	s.Logger.Info("backup uploaded", "bucket", bucket, "key", key)
	fmt.Printf("Uploaded %s\n", result.Location)
	return nil
}
