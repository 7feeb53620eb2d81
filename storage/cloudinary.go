package storage

import (
	"context"
	"log"
	"os"

	"github.com/cloudinary/cloudinary-go"
	"github.com/cloudinary/cloudinary-go/api/uploader"
)

var Cloudinary *cloudinary.Cloudinary

func InitializeCloudinary() {
	cld, err := cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
	if err != nil {
		log.Println("Warning: Cloudinary not configured, image uploads disabled:", err)
		return
	}
	Cloudinary = cld
}

// UploadBase64Image uploads a base64 data URI and returns the hosted URL.
func UploadBase64Image(ctx context.Context, base64ImageSrc string, publicID string) (string, error) {
	res, err := Cloudinary.Upload.Upload(ctx, base64ImageSrc, uploader.UploadParams{
		PublicID: publicID,
		Folder:   os.Getenv("CLOUDINARY_FOLDER"),
	})
	if err != nil {
		return "", err
	}
	return res.SecureURL, nil
}
