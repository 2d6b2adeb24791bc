package service

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"smart_classroom_backend/internal/model"
	"smart_classroom_backend/internal/repository"
	"smart_classroom_backend/internal/util"

	"gorm.io/gorm"
)

type MaterialService struct {
	MaterialRepo *repository.MaterialRepository
	ClassRepo    *repository.ClassRepository
	Storage      *StorageService
}

func NewMaterialService(materialRepo *repository.MaterialRepository, classRepo *repository.ClassRepository, storage *StorageService) *MaterialService {
	return &MaterialService{MaterialRepo: materialRepo, ClassRepo: classRepo, Storage: storage}
}

// materialTypeOf 按扩展名识别课件类型
func materialTypeOf(filename string) (model.MaterialType, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return model.MaterialPDF, nil
	case ".docx":
		return model.MaterialDocx, nil
	}
	return "", errors.New("only pdf and docx files are supported")
}

// UploadFile 教师上传课件文件，存储成功后落库
func (s *MaterialService) UploadFile(ctx context.Context, classID, teacherID, title string, header *multipart.FileHeader, reader io.Reader) (*model.Material, error) {
	if _, err := s.ownedClass(classID, teacherID); err != nil {
		return nil, err
	}

	mtype, err := materialTypeOf(header.Filename)
	if err != nil {
		return nil, err
	}

	filename := classID + "/" + model.GenerateUUID() + filepath.Ext(header.Filename)
	url, err := s.Storage.Upload(ctx, filename, reader, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = header.Filename
	}
	material := &model.Material{
		ClassID: classID,
		Type:    mtype,
		Title:   title,
		URL:     url,
	}
	if err := s.MaterialRepo.Create(material); err != nil {
		return nil, err
	}
	return material, nil
}

// AddLink 外部链接类课件，目前只支持 YouTube
func (s *MaterialService) AddLink(classID, teacherID, title, url string) (*model.Material, error) {
	if _, err := s.ownedClass(classID, teacherID); err != nil {
		return nil, err
	}
	if !strings.Contains(url, "youtube.com/") && !strings.Contains(url, "youtu.be/") {
		return nil, errors.New("only youtube links are supported")
	}
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("material title is required")
	}

	material := &model.Material{
		ClassID: classID,
		Type:    model.MaterialYoutube,
		Title:   title,
		URL:     url,
	}
	if err := s.MaterialRepo.Create(material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *MaterialService) List(classID string) ([]model.Material, error) {
	return s.MaterialRepo.ListByClass(classID)
}

func (s *MaterialService) Delete(ctx context.Context, materialID, teacherID string) error {
	material, err := s.MaterialRepo.FindByID(materialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("material not found")
		}
		return err
	}
	if _, err := s.ownedClass(material.ClassID, teacherID); err != nil {
		return err
	}

	// 外链类课件没有存储对象可删
	if material.Type != model.MaterialYoutube {
		if name, ok := strings.CutPrefix(material.URL, "/uploads/"); ok {
			s.Storage.Delete(ctx, name)
		}
	}
	return s.MaterialRepo.Delete(materialID)
}

func (s *MaterialService) ownedClass(classID, teacherID string) (*model.Class, error) {
	class, err := s.ClassRepo.FindOwned(classID, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if _, e := s.ClassRepo.FindByID(classID); e == nil {
				return nil, util.ErrPermissionDenied
			}
			return nil, util.ErrClassNotFound
		}
		return nil, err
	}
	return class, nil
}
