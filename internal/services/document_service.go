package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"vendortrack/internal/models"
	"vendortrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DocumentService stores contract documents (signed PDFs, scans) in
// object storage and links them to services.
type DocumentService interface {
	AttachDocument(ctx context.Context, serviceID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (string, error)
	GetDocumentURL(ctx context.Context, serviceID uuid.UUID, expiry time.Duration) (string, error)
	RemoveDocument(ctx context.Context, serviceID uuid.UUID) error
	EnsureBucketExists(ctx context.Context) error
}

type documentService struct {
	client      *minio.Client
	bucket      string
	serviceRepo repositories.ServiceRepository
}

func NewDocumentService(endpoint, accessKey, secretKey string, useSSL bool, bucket string, serviceRepo repositories.ServiceRepository) (DocumentService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &documentService{client: client, bucket: bucket, serviceRepo: serviceRepo}, nil
}

func (d *documentService) AttachDocument(ctx context.Context, serviceID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (string, error) {
	service, err := d.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return "", fmt.Errorf("%w: service %s", ErrNotFound, serviceID)
		}
		return "", err
	}

	objectName := fmt.Sprintf("services/%s/%s", serviceID, filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err = d.client.PutObject(ctx, d.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading document: %w", err)
	}

	service.DocumentObject = &objectName
	service.Status = models.DeriveStatus(service.Status, service.ExpiryDate, service.PaymentDueDate, time.Now())
	if err := d.serviceRepo.Update(ctx, service); err != nil {
		return "", fmt.Errorf("linking document to service: %w", err)
	}
	return objectName, nil
}

func (d *documentService) GetDocumentURL(ctx context.Context, serviceID uuid.UUID, expiry time.Duration) (string, error) {
	service, err := d.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return "", fmt.Errorf("%w: service %s", ErrNotFound, serviceID)
		}
		return "", err
	}
	if service.DocumentObject == nil {
		return "", fmt.Errorf("%w: service %s has no document", ErrNotFound, serviceID)
	}

	url, err := d.client.PresignedGetObject(ctx, d.bucket, *service.DocumentObject, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presigning document url: %w", err)
	}
	return url.String(), nil
}

func (d *documentService) RemoveDocument(ctx context.Context, serviceID uuid.UUID) error {
	service, err := d.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return fmt.Errorf("%w: service %s", ErrNotFound, serviceID)
		}
		return err
	}
	if service.DocumentObject == nil {
		return nil
	}

	if err := d.client.RemoveObject(ctx, d.bucket, *service.DocumentObject, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing document object: %w", err)
	}

	service.DocumentObject = nil
	service.Status = models.DeriveStatus(service.Status, service.ExpiryDate, service.PaymentDueDate, time.Now())
	return d.serviceRepo.Update(ctx, service)
}

func (d *documentService) EnsureBucketExists(ctx context.Context) error {
	found, err := d.client.BucketExists(ctx, d.bucket)
	if err != nil {
		return err
	}
	if !found {
		return d.client.MakeBucket(ctx, d.bucket, minio.MakeBucketOptions{})
	}
	return nil
}
