package converter

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"heic2jpg/contracts"
	"heic2jpg/files_manager"
)

type ConversionResult = contracts.ConversionResult

type fileConverter interface {
	Convert(inputPath string) (string, error)
}

// Reporter receives every result as it completes. Calls come from a
// single goroutine, in completion order.
type Reporter interface {
	Report(result ConversionResult, done int, total int)
}

type Batch struct {
	converter  fileConverter
	numWorkers int
	reporter   Reporter
	logger     *zap.Logger
}

type convertTask struct {
	filePath string
	resultCh chan<- ConversionResult
}

func NewBatch(converter fileConverter, numWorkers int, reporter Reporter, logger *zap.Logger) *Batch {
	if numWorkers < 1 {
		numWorkers = contracts.DefaultWorkers
	}
	return &Batch{
		converter:  converter,
		numWorkers: numWorkers,
		reporter:   reporter,
		logger:     logger,
	}
}

func (b *Batch) convertWorker(ctx context.Context, taskChan <-chan convertTask, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range taskChan {
		if err := ctx.Err(); err != nil {
			task.resultCh <- ConversionResult{
				InputPath: task.filePath,
				Err:       contracts.NewConversionError(task.filePath, contracts.ErrCanceled, err),
			}
			continue
		}
		task.resultCh <- b.convertOne(task.filePath)
	}
}

func (b *Batch) convertOne(filePath string) (result ConversionResult) {
	result.InputPath = filePath
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("conversion panicked", zap.String("path", filePath), zap.Any("panic", r))
			result.OutputPath = ""
			result.Err = contracts.NewConversionError(filePath, contracts.ErrPanic, fmt.Errorf("%v", r))
		}
	}()

	outputPath, err := b.converter.Convert(filePath)
	if err != nil {
		result.Err = err
		return result
	}
	result.OutputPath = outputPath
	return result
}

// Run converts every file with a fixed pool of workers and returns one
// result per distinct input path. A failed file never stops the others.
// Inputs sharing an output path (IMG_1.heic and IMG_1.HEIC) are
// converted once; later ones fail with ErrOutputConflict untouched.
// Once ctx is done, files not yet started are reported as canceled.
func (b *Batch) Run(ctx context.Context, files []string) map[string]ConversionResult {
	filesToConvert := make([]string, 0, len(files))
	var conflicts []ConversionResult
	seen := make(map[string]struct{}, len(files))
	claimed := make(map[string]string, len(files))
	for _, file := range files {
		if _, ok := seen[file]; ok {
			b.logger.Debug("duplicate input skipped", zap.String("path", file))
			continue
		}
		seen[file] = struct{}{}

		outputPath := files_manager.OutputPath(file)
		if owner, ok := claimed[outputPath]; ok {
			conflicts = append(conflicts, ConversionResult{
				InputPath: file,
				Err: contracts.NewConversionError(file, contracts.ErrOutputConflict,
					fmt.Errorf("%s is produced from %s", outputPath, owner)),
			})
			continue
		}
		claimed[outputPath] = file
		filesToConvert = append(filesToConvert, file)
	}
	total := len(filesToConvert) + len(conflicts)

	taskChan := make(chan convertTask)
	resultChan := make(chan ConversionResult, b.numWorkers)

	wg := &sync.WaitGroup{}

	for i := 0; i < b.numWorkers; i++ {
		wg.Add(1)
		go b.convertWorker(ctx, taskChan, wg)
	}

	results := make(map[string]ConversionResult, total)

	done := make(chan struct{})

	go func() {
		for result := range resultChan {
			results[result.InputPath] = result

			if result.Failed() {
				b.logger.Error("conversion failed", zap.String("path", result.InputPath), zap.Error(result.Err))
			} else {
				b.logger.Debug("conversion succeeded", zap.String("path", result.InputPath), zap.String("output", result.OutputPath))
			}
			if b.reporter != nil {
				b.reporter.Report(result, len(results), total)
			}
		}
		close(done)
	}()

	for _, conflict := range conflicts {
		resultChan <- conflict
	}
	for _, file := range filesToConvert {
		taskChan <- convertTask{
			filePath: file,
			resultCh: resultChan,
		}
	}
	close(taskChan)

	wg.Wait()
	close(resultChan)
	<-done

	return results
}
