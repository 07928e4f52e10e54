package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	credentials "cloud.google.com/go/iam/credentials/apiv1"
	credentialspb "cloud.google.com/go/iam/credentials/apiv1/credentialspb"
	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"squash-courts/backend/internal/config"
	"squash-courts/backend/internal/domain/catalog"
	"squash-courts/backend/internal/httpjson"
	"squash-courts/backend/internal/utils"
)

const (
	defaultUploadExpiry = 15 * time.Minute
	maxUploadExpiry     = time.Hour
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var errUploadsDisabled = errors.New("signed uploads are not configured")

// URLSigner is satisfied by *storage.BucketHandle.
type URLSigner interface {
	SignedURL(object string, opts *storage.SignedURLOptions) (string, error)
}

// SignBytesFunc signs a payload as the configured service account.
type SignBytesFunc func(ctx context.Context, payload []byte) ([]byte, error)

// IAMSigner signs through the IAM credentials API, so no private key has to
// be present on the server.
func IAMSigner(client *credentials.IamCredentialsClient, serviceAccount string) SignBytesFunc {
	if client == nil || serviceAccount == "" {
		return nil
	}
	name := fmt.Sprintf("projects/-/serviceAccounts/%s", serviceAccount)
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		resp, err := client.SignBlob(ctx, &credentialspb.SignBlobRequest{Name: name, Payload: payload})
		if err != nil {
			return nil, err
		}
		return resp.SignedBlob, nil
	}
}

// Uploads issues V4 signed PUT URLs for catalog images.
type Uploads struct {
	bucket         string
	serviceAccount string
	signer         URLSigner
	signBytes      SignBytesFunc
	now            func() time.Time
}

func NewUploads(cfg config.Config, signer URLSigner, signBytes SignBytesFunc) *Uploads {
	return &Uploads{
		bucket:         cfg.Firebase.StorageBucket,
		serviceAccount: cfg.Firebase.SignedURLServiceAccountEmail,
		signer:         signer,
		signBytes:      signBytes,
		now:            time.Now,
	}
}

type signedURLReq struct {
	Kind           string `json:"kind" validate:"required"`
	FileName       string `json:"fileName" validate:"required,max=200"`
	ContentType    string `json:"contentType" validate:"required"`
	ExpiresSeconds int64  `json:"expiresSeconds,omitempty" validate:"omitempty,min=1"`
}

type signedURLResp struct {
	URL        string `json:"url"`
	Method     string `json:"method"`
	ObjectPath string `json:"objectPath"`
	PublicURL  string `json:"publicUrl"`
	ExpiresAt  int64  `json:"expiresAt"`
}

func (h *Uploads) CreateSignedUploadURL(w http.ResponseWriter, r *http.Request) {
	var req signedURLReq
	if err := httpjson.Read(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	kind, err := catalog.ParseKind(req.Kind)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	ext, ok := allowedImageTypes[strings.ToLower(req.ContentType)]
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "contentType must be a jpeg, png, webp or gif image")
		return
	}

	object := objectPath(kind, req.FileName, ext)
	out, err := h.sign(r.Context(), object, strings.ToLower(req.ContentType), time.Duration(req.ExpiresSeconds)*time.Second)
	if err != nil {
		if errors.Is(err, errUploadsDisabled) {
			httpjson.Error(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		log.Error().Err(err).Str("object", object).Msg("failed to sign upload url")
		httpjson.Error(w, http.StatusInternalServerError, "failed to sign upload url")
		return
	}
	httpjson.Write(w, http.StatusOK, out)
}

// objectPath places uploads under catalog/<kind>/ with a random prefix so
// that two uploads of the same file name never overwrite each other.
func objectPath(kind catalog.Kind, fileName, ext string) string {
	base := strings.TrimSuffix(fileName, path.Ext(fileName))
	slug := utils.TrimMax(utils.Slugify(base), 60)
	if slug == "" {
		slug = "image"
	}
	return path.Join("catalog", string(kind), uuid.NewString()+"-"+slug+ext)
}

func (h *Uploads) sign(ctx context.Context, object, contentType string, expires time.Duration) (signedURLResp, error) {
	if h.bucket == "" || h.serviceAccount == "" || h.signer == nil || h.signBytes == nil {
		return signedURLResp{}, errUploadsDisabled
	}
	if expires <= 0 || expires > maxUploadExpiry {
		expires = defaultUploadExpiry
	}
	exp := h.now().Add(expires)

	url, err := h.signer.SignedURL(object, &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         http.MethodPut,
		Expires:        exp,
		ContentType:    contentType,
		GoogleAccessID: h.serviceAccount,
		SignBytes: func(b []byte) ([]byte, error) {
			return h.signBytes(ctx, b)
		},
	})
	if err != nil {
		return signedURLResp{}, fmt.Errorf("failed to sign url (check service account and permissions): %w", err)
	}

	return signedURLResp{
		URL:        url,
		Method:     http.MethodPut,
		ObjectPath: object,
		PublicURL:  fmt.Sprintf("https://storage.googleapis.com/%s/%s", h.bucket, object),
		ExpiresAt:  exp.Unix(),
	}, nil
}
