package handler

import (
	"time"

	"github.com/atelierline/studio/internal/shared/storage"
	"github.com/gin-gonic/gin"
)

// UploadHandler 文件上传处理器，图纸文件存对象存储
type UploadHandler struct {
	store *storage.Store
}

// NewUploadHandler 创建文件上传处理器
func NewUploadHandler(store *storage.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

// UploadedFile 上传文件信息
type UploadedFile struct {
	Key         string `json:"key"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Upload 处理文件上传
// POST /upload
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.store == nil {
		InternalError(c, "对象存储未配置")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		BadRequest(c, "无法解析上传文件: "+err.Error())
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		// 也尝试获取单文件
		files = form.File["file"]
	}
	if len(files) == 0 {
		BadRequest(c, "没有上传文件")
		return
	}

	var uploaded []UploadedFile
	for _, fileHeader := range files {
		src, err := fileHeader.Open()
		if err != nil {
			InternalError(c, "读取上传文件失败: "+err.Error())
			return
		}

		contentType := fileHeader.Header.Get("Content-Type")
		key, err := h.store.Upload(c.Request.Context(), fileHeader.Filename, contentType, fileHeader.Size, src)
		src.Close()
		if err != nil {
			InternalError(c, "保存文件失败: "+err.Error())
			return
		}

		uploaded = append(uploaded, UploadedFile{
			Key:         key,
			Filename:    fileHeader.Filename,
			Size:        fileHeader.Size,
			ContentType: contentType,
		})
	}

	Success(c, uploaded)
}

// Download GET /files/download?key=xxx&name=yyy
func (h *UploadHandler) Download(c *gin.Context) {
	if h.store == nil {
		InternalError(c, "对象存储未配置")
		return
	}

	key := c.Query("key")
	if key == "" {
		BadRequest(c, "缺少文件key")
		return
	}

	url, err := h.store.PresignedURL(c.Request.Context(), key, c.Query("name"), 15*time.Minute)
	if err != nil {
		InternalError(c, "生成下载链接失败: "+err.Error())
		return
	}
	Success(c, gin.H{"url": url})
}
