package storage

import (
	"context"
	"fmt"

	"github.com/staticbackendhq/imageeditor/model"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type S3 struct {
	Region string
	Bucket string
	CDNURL string
}

func (s S3) Save(ctx context.Context, data model.UploadFileData) (string, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(s.Region)})
	if err != nil {
		return "", err
	}

	svc := s3.New(sess)
	obj := &s3.PutObjectInput{}
	obj.Body = data.File
	obj.ACL = aws.String(s3.ObjectCannedACLPublicRead)
	obj.Bucket = aws.String(s.Bucket)
	obj.Key = aws.String(data.FileKey)
	if len(data.ContentType) > 0 {
		obj.ContentType = aws.String(data.ContentType)
	}

	if _, err := svc.PutObjectWithContext(ctx, obj); err != nil {
		return "", err
	}

	url := fmt.Sprintf(
		"%s/%s",
		s.CDNURL,
		data.FileKey,
	)

	return url, nil
}
