package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeObjectPutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeObjectPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestSharePublisherDisabledWithoutBucket(t *testing.T) {
	publisher, err := NewSharePublisher(context.Background(), "  ", "us-east-1")
	if err != nil {
		t.Fatalf("expected disabled publisher without error, got %v", err)
	}
	if publisher.Enabled() {
		t.Fatalf("publisher without bucket should be disabled")
	}
	if _, err := publisher.Publish(context.Background(), testDevice, []byte("png")); !errors.Is(err, ErrShareBucketMissing) {
		t.Fatalf("expected ErrShareBucketMissing, got %v", err)
	}

	var nilPublisher *SharePublisher
	if nilPublisher.Enabled() {
		t.Fatalf("nil publisher should be disabled")
	}
}

func TestSharePublisherPublish(t *testing.T) {
	putter := &fakeObjectPutter{}
	publisher := &SharePublisher{client: putter, bucket: "cards", region: "eu-west-1"}

	url, err := publisher.Publish(context.Background(), testDevice, []byte("png-bytes"))
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	key := aws.ToString(putter.input.Key)
	if !strings.HasPrefix(key, "share-cards/"+testDevice+"/") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("unexpected object key %q", key)
	}
	if aws.ToString(putter.input.Bucket) != "cards" || aws.ToString(putter.input.ContentType) != "image/png" {
		t.Fatalf("unexpected put input: %+v", putter.input)
	}
	if string(putter.body) != "png-bytes" {
		t.Fatalf("unexpected body %q", putter.body)
	}
	if url != "https://cards.s3.eu-west-1.amazonaws.com/"+key {
		t.Fatalf("unexpected url %q", url)
	}

	putter.err = errors.New("access denied")
	if _, err := publisher.Publish(context.Background(), testDevice, []byte("png")); err == nil {
		t.Fatalf("expected upload error")
	}
}
