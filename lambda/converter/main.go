package main

import (
	"bufio"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/brainfeed/internal/service"
	"github.com/m-mizutani/brainfeed/pkg/converter"
	"github.com/m-mizutani/brainfeed/pkg/handler"
	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger = handler.Logger

func main() {
	handler.StartLambda(Handler)
}

// Handler is exported for testing
func Handler(args handler.Arguments) error {
	if args.OutputS3Bucket == "" {
		return errors.New("OUTPUT_S3_BUCKET is required")
	}

	records, err := args.DecapS3Event()
	if err != nil {
		return err
	}

	for _, record := range records {
		src := models.NewS3ObjectFromRecord(record)
		if args.BrainS3Bucket != "" && src.Bucket != args.BrainS3Bucket {
			logger.WithField("src", src.URL()).Warn("Ignore object of other bucket")
			continue
		}

		if err := convertObject(args, src); err != nil {
			return errors.Wrapf(err, "Failed to convert %s", src.URL())
		}
	}

	return nil
}

func convertObject(args handler.Arguments, src models.S3Object) error {
	outputRoot, err := ioutil.TempDir("", "brainfeed")
	if err != nil {
		return errors.Wrap(err, "Fail to create output directory")
	}
	defer os.RemoveAll(outputRoot)

	c, date, ok := converter.ForKey(src.Key, args.ConverterConfig(src.Region, src.Bucket, outputRoot))
	if !ok {
		logger.WithField("src", src.URL()).Info("Not a vendor drop, skip")
		return nil
	}

	logger.WithFields(logrus.Fields{
		"converter": c.Name(),
		"date":      date,
	}).Info("Run converter")

	written, err := c.ProcessDate(date)
	if err != nil {
		return err
	}

	s3Service := args.S3Service()
	dstBase := models.NewS3Object(args.AwsRegion, args.OutputS3Bucket, args.OutputS3Prefix)
	for _, path := range written {
		rel, err := filepath.Rel(outputRoot, path)
		if err != nil {
			return errors.Wrapf(err, "Fail to resolve output path: %s", path)
		}
		dst := dstBase.Join(filepath.ToSlash(rel))

		if err := mergeRemote(s3Service, path, dst); err != nil {
			return err
		}
		if err := s3Service.UploadFileToS3(path, dst); err != nil {
			return err
		}
	}

	logger.WithFields(logrus.Fields{
		"converter": c.Name(),
		"date":      date,
		"files":     len(written),
	}).Info("Uploaded converted files")

	return nil
}

// mergeRemote merges lines already uploaded to dst into the local file.
func mergeRemote(s3Service *service.S3Service, path string, dst models.S3Object) error {
	body, err := s3Service.AsyncDownload(dst)
	if err != nil {
		if !service.IsNotFound(err) {
			return err
		}
		logger.WithField("dst", dst.URL()).Debug("No uploaded file to merge")
		return nil
	}
	defer body.Close()

	remote, err := scanLines(bufio.NewScanner(body))
	if err != nil {
		return errors.Wrapf(err, "Fail to read %s", dst.URL())
	}

	fd, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "Fail to open %s", path)
	}
	local, err := scanLines(bufio.NewScanner(fd))
	fd.Close()
	if err != nil {
		return errors.Wrapf(err, "Fail to read %s", path)
	}

	merged := converter.MergeLines(local, remote)
	content := strings.Join(merged, "\n") + "\n"
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, "Fail to write %s", path)
	}

	return nil
}

func scanLines(scanner *bufio.Scanner) ([]string, error) {
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
