package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jx11synth/jx11"
	"github.com/jx11synth/jx11/oto"
	"github.com/jx11synth/jx11/processor"
	"github.com/jx11synth/jx11/version"
)

func main() {
	stdout := flag.Bool("s", false, "Do not write files; write raw audio to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	directory := flag.String("o", "", "Directory where to output all files. The directory and its parents are created if needed. By default, everything is placed in the working directory.")
	play := flag.Bool("p", false, "Play the input performances (default behaviour when no other output is defined).")
	rawOut := flag.Bool("r", false, "Output the rendered performance as .raw file. By default, saves stereo float32 buffer to disk.")
	wavOut := flag.Bool("w", false, "Output the rendered performance as .wav file.")
	pcm := flag.Bool("c", false, "Convert .raw audio to 16-bit signed PCM.")
	bitDepth := flag.Int("b", 16, "Bit depth of .wav files: 16, 24 or 32.")
	sampleRate := flag.Int("rate", 44100, "Sample rate in Hz.")
	blockSize := flag.Int("block", processor.DefaultBlockSize, "Block size in frames; the output does not depend on it.")
	presetName := flag.String("preset", "", "Override the preset named in the performance.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	if !*rawOut && !*wavOut {
		*play = true // if the user gives nothing to output, then the default behaviour is just to play the file
	}
	presets, err := jx11.LoadPresets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load presets: %v\n", err)
		os.Exit(1)
	}
	var audioContext jx11.AudioContext
	if *play {
		audioContext, err = oto.NewContext(*sampleRate, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not acquire oto AudioContext: %v\n", err)
			os.Exit(1)
		}
	}
	outputPath := func(filename, extension string) (string, error) {
		dir := *directory
		if dir == "" {
			var err error
			if dir, err = os.Getwd(); err != nil {
				return "", fmt.Errorf("could not get working directory, specify the output directory explicitly: %v", err)
			}
		}
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return "", fmt.Errorf("could not create output directory %v: %v", dir, err)
		}
		_, name := filepath.Split(filename)
		return filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name))+extension), nil
	}
	process := func(filename string) error {
		inputBytes, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("could not read file %v: %v", filename, err)
		}
		var perf jx11.Performance
		if errYaml := yaml.Unmarshal(inputBytes, &perf); errYaml != nil {
			if errJSON := json.Unmarshal(inputBytes, &perf); errJSON != nil {
				return fmt.Errorf("the performance could not be parsed as .yml (%v) or .json (%v)", errYaml, errJSON)
			}
		}
		if *presetName != "" {
			perf.Preset = *presetName
		}
		buffer, err := processor.Render(&perf, presets, *sampleRate, *blockSize)
		if err != nil {
			return fmt.Errorf("processor.Render failed: %v", err)
		}
		var playWaiter jx11.CloserWaiter
		if *play {
			remaining := buffer
			playWaiter = audioContext.Play(func(buf jx11.AudioBuffer) error {
				if len(remaining) == 0 {
					return io.EOF
				}
				n := copy(buf, remaining)
				clear(buf[n:])
				remaining = remaining[n:]
				return nil
			})
		}
		if *rawOut {
			raw, err := buffer.Raw(*pcm)
			if err != nil {
				return fmt.Errorf("could not generate .raw file: %v", err)
			}
			if *stdout {
				if _, err := os.Stdout.Write(raw); err != nil {
					return fmt.Errorf("could not write to standard output: %v", err)
				}
			} else if err := writeFile(outputPath, filename, ".raw", raw); err != nil {
				return err
			}
		}
		if *wavOut {
			path, err := outputPath(filename, ".wav")
			if err != nil {
				return err
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("could not create file %v: %v", path, err)
			}
			err = buffer.Wav(f, *sampleRate, *bitDepth)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("could not write .wav file %v: %v", path, err)
			}
		}
		if playWaiter != nil {
			playWaiter.Wait()
			playWaiter.Close()
		}
		return nil
	}
	retval := 0
	for _, param := range flag.Args() {
		files := []string{param}
		if info, err := os.Stat(param); err == nil && info.IsDir() {
			ymlfiles, _ := filepath.Glob(filepath.Join(param, "*.yml"))
			jsonfiles, _ := filepath.Glob(filepath.Join(param, "*.json"))
			files = append(ymlfiles, jsonfiles...)
		}
		for _, file := range files {
			if err := process(file); err != nil {
				fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", file, err)
				retval = 1
			}
		}
	}
	if audioContext != nil {
		audioContext.Close()
	}
	os.Exit(retval)
}

func writeFile(outputPath func(string, string) (string, error), filename, extension string, contents []byte) error {
	path, err := outputPath(filename, extension)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, contents, 0644); err != nil {
		return fmt.Errorf("could not write file %v: %v", path, err)
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "jx11 command line utility for rendering and playing .yml/.json performance files.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
