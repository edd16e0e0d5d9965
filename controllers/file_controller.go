// controllers/file_controller.go
package controllers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/icrisstudio/studio_backend/config"
	"github.com/icrisstudio/studio_backend/middleware"
	"github.com/icrisstudio/studio_backend/models"
	"github.com/icrisstudio/studio_backend/utils"
)

const (
	uploadTokenPrefix = "upload:"
	uploadTokenTTL    = 10 * time.Minute
)

// FileController implements the two-step upload protocol. Clients first ask
// for an upload URL, which parks a one-time token in Redis, then POST the
// bytes to that URL. The returned storageId is the only handle other ledgers
// keep; paths on disk stay private.
type FileController struct {
	DB *mongo.Client
}

func NewFileController(db *mongo.Client) *FileController {
	return &FileController{DB: db}
}

func (fc *FileController) files() *mongo.Collection {
	return config.GetCollection(fc.DB, config.FilesCollection)
}

// GenerateUploadURL issues a short-lived single-use upload URL.
func (fc *FileController) GenerateUploadURL(c echo.Context) error {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := config.GetRedisClient().Set(ctx, uploadTokenPrefix+token, userID, uploadTokenTTL).Err(); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create upload URL",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Upload URL created",
		Data: models.UploadURLResponse{
			UploadURL: "/api/files/upload/" + token,
			ExpiresIn: int64(uploadTokenTTL / time.Second),
		},
	})
}

// Upload consumes a one-time token and stores the posted bytes. The body may
// be raw bytes or a multipart form with a "file" field.
func (fc *FileController) Upload(c echo.Context) error {
	token := c.Param("token")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// GetDel makes the token single-use even under concurrent posts.
	ownerHex, err := config.GetRedisClient().GetDel(ctx, uploadTokenPrefix+token).Result()
	if err != nil {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Upload URL is invalid or expired",
		})
	}

	data, filename, contentType, err := readUploadBody(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	storedName, err := utils.SaveUploadedFile(data, filename)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	thumbName, err := utils.GenerateThumbnail(storedName)
	if err != nil {
		// Thumbnails are best effort; the original is already stored.
		thumbName = ""
	}

	record := models.StoredFile{
		Filename:    utils.CleanFilename(filename),
		Path:        storedName,
		Thumbnail:   thumbName,
		ContentType: contentType,
		Size:        int64(len(data)),
		CreatedAt:   utils.NowMillis(),
	}
	if owner, err := parseObjectID(ownerHex); err == nil {
		record.UploadedBy = owner
	}

	result, err := fc.files().InsertOne(ctx, record)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record upload",
		})
	}

	storageID := result.InsertedID.(primitive.ObjectID).Hex()

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "File uploaded",
		Data:    models.UploadResponse{StorageID: storageID},
	})
}

// GetFileURL resolves a storage reference to a public URL. Unknown
// references resolve to null rather than an error so stale proofs render
// as missing attachments.
func (fc *FileController) GetFileURL(c echo.Context) error {
	fileID, err := parseObjectID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "File URL",
			Data:    models.FileURLResponse{URL: nil},
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var record models.StoredFile
	if err := fc.files().FindOne(ctx, bson.M{"_id": fileID}).Decode(&record); err != nil {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "File URL",
			Data:    models.FileURLResponse{URL: nil},
		})
	}

	url := utils.FileURL(record.Path)
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "File URL",
		Data:    models.FileURLResponse{URL: &url},
	})
}

func readUploadBody(c echo.Context) (data []byte, filename, contentType string, err error) {
	if fileHeader, formErr := c.FormFile("file"); formErr == nil {
		src, openErr := fileHeader.Open()
		if openErr != nil {
			return nil, "", "", openErr
		}
		defer src.Close()

		data, err = io.ReadAll(io.LimitReader(src, utils.MaxFileSize+1))
		if err != nil {
			return nil, "", "", err
		}
		return data, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), nil
	}

	data, err = io.ReadAll(io.LimitReader(c.Request().Body, utils.MaxFileSize+1))
	if err != nil {
		return nil, "", "", err
	}
	return data, "upload.bin", c.Request().Header.Get("Content-Type"), nil
}
