package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"resumepanel/internal/errors"
	"resumepanel/internal/types"
	"resumepanel/internal/utils"
)

// FileProcessor reads resume and job inputs and writes outputs.
type FileProcessor struct {
	logger      *errors.Logger
	maxFileSize int64
}

// NewFileProcessor creates a new file processor instance. A maxFileSize of
// zero disables the size check.
func NewFileProcessor(logger *errors.Logger, maxFileSize int64) *FileProcessor {
	if logger == nil {
		logger = errors.Discard()
	}
	return &FileProcessor{logger: logger, maxFileSize: maxFileSize}
}

// ReadFile validates and reads filename.
func (fp *FileProcessor) ReadFile(filename string) ([]byte, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
			fmt.Sprintf("File not found: %s", filename), err)
	}
	if err := utils.ValidateInputFile(filename, fp.maxFileSize); err != nil {
		return nil, errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid file %s", filename), err)
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	return content, nil
}

// LoadResume reads a resume from a JSON file (a structured resume or a
// full {"resume": ...} envelope) or extracts text from a text, PDF or
// DOCX document.
func (fp *FileProcessor) LoadResume(filename string) (types.Resume, error) {
	data, err := fp.ReadFile(filename)
	if err != nil {
		return types.Resume{}, err
	}

	var resume types.Resume
	if utils.IsJSONFile(filename) {
		var envelope struct {
			Resume *types.Resume `json:"resume"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return types.Resume{}, errors.NewValidationError(errors.ErrCodeInvalidFormat,
				fmt.Sprintf("Invalid resume JSON in %s", filename), err)
		}
		if envelope.Resume != nil {
			resume = *envelope.Resume
		} else if err := json.Unmarshal(data, &resume); err != nil {
			return types.Resume{}, errors.NewValidationError(errors.ErrCodeInvalidFormat,
				fmt.Sprintf("Invalid resume JSON in %s", filename), err)
		}
	} else {
		text, err := ExtractDocumentText(filename, data)
		if err != nil {
			return types.Resume{}, err
		}
		resume.ExtractedText = text
	}

	if resume.IsEmpty() {
		return types.Resume{}, errors.NewValidationError(errors.ErrCodeMissingResume,
			fmt.Sprintf("Resume %s carries no usable content", filename), nil)
	}

	fp.logger.Debug("Resume loaded",
		"filename", filename,
		"structured", resume.HasStructured(),
		"text_length", len(resume.ExtractedText))
	return resume, nil
}

// LoadJob reads job requirements from a JSON file, or treats a text
// document as the job description. An empty filename yields nil.
func (fp *FileProcessor) LoadJob(filename string) (*types.JobRequirements, error) {
	if filename == "" {
		return nil, nil
	}
	data, err := fp.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	if utils.IsJSONFile(filename) {
		var job types.JobRequirements
		if err := json.Unmarshal(data, &job); err != nil {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
				fmt.Sprintf("Invalid job requirements JSON in %s", filename), err)
		}
		return &job, nil
	}

	text, err := ExtractDocumentText(filename, data)
	if err != nil {
		return nil, err
	}
	return &types.JobRequirements{Description: types.Text(text)}, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}
