package classifier

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv guards the process-wide ONNX Runtime initialization.
var ortEnv struct {
	once sync.Once
	err  error
}

func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// ONNX runs an exported scikit-learn classifier in-process. The model must
// take one float tensor [batch, features] and produce an int64 label tensor
// and a float probability tensor [batch, classes] (zipmap disabled).
type ONNX struct {
	session   *ort.DynamicAdvancedSession
	inputName string
	labelName string
	probaName string
	features  int64
}

// NewONNX loads the model at modelPath. libPath locates the ONNX Runtime
// shared library; when empty it is expected next to the model.
func NewONNX(modelPath, libPath string) (*ONNX, error) {
	if libPath == "" {
		libPath = filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
	}
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}

	m := &ONNX{}
	if err := m.bindInput(inputs); err != nil {
		return nil, err
	}
	if err := m.bindOutputs(outputs); err != nil {
		return nil, err
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(1)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{m.inputName},
		[]string{m.labelName, m.probaName},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}
	m.session = session
	return m, nil
}

func (m *ONNX) bindInput(inputs []ort.InputOutputInfo) error {
	if len(inputs) != 1 {
		return fmt.Errorf("onnx: expected 1 model input, got %d", len(inputs))
	}
	in := inputs[0]
	if in.DataType != ort.TensorElementDataTypeFloat {
		return fmt.Errorf("onnx: input %q has type %v, want float", in.Name, in.DataType)
	}
	if len(in.Dimensions) != 2 {
		return fmt.Errorf("onnx: expected 2D input tensor, got %v", in.Dimensions)
	}
	m.inputName = in.Name
	m.features = in.Dimensions[1]
	return nil
}

func (m *ONNX) bindOutputs(outputs []ort.InputOutputInfo) error {
	for _, out := range outputs {
		if out.OrtValueType != ort.ONNXTypeTensor {
			continue
		}
		switch out.DataType {
		case ort.TensorElementDataTypeInt64:
			if m.labelName == "" {
				m.labelName = out.Name
			}
		case ort.TensorElementDataTypeFloat:
			if m.probaName == "" {
				m.probaName = out.Name
			}
		}
	}
	if m.labelName == "" {
		return fmt.Errorf("onnx: model has no int64 label output")
	}
	if m.probaName == "" {
		return fmt.Errorf("onnx: model has no float probability tensor; export with zipmap disabled")
	}
	return nil
}

// Predict returns the model's class index for vec.
func (m *ONNX) Predict(ctx context.Context, vec []float64) (int, error) {
	label, _, err := m.run(ctx, vec)
	if err != nil {
		return 0, err
	}
	return int(label), nil
}

// PredictProba returns the model's class probabilities for vec.
func (m *ONNX) PredictProba(ctx context.Context, vec []float64) ([]float64, error) {
	_, proba, err := m.run(ctx, vec)
	if err != nil {
		return nil, err
	}
	return proba, nil
}

func (m *ONNX) run(ctx context.Context, vec []float64) (int64, []float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	n := int64(len(vec))
	if m.features > 0 && n != m.features {
		return 0, nil, fmt.Errorf("onnx: got %d features, model expects %d", n, m.features)
	}

	data := make([]float32, n)
	for i, v := range vec {
		data[i] = float32(v)
	}
	tIn, err := ort.NewTensor(ort.NewShape(1, n), data)
	if err != nil {
		return 0, nil, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer tIn.Destroy()

	tLabel, err := ort.NewEmptyTensor[int64](ort.NewShape(1))
	if err != nil {
		return 0, nil, fmt.Errorf("onnx: failed to create label tensor: %w", err)
	}
	defer tLabel.Destroy()

	tProba, err := ort.NewEmptyTensor[float32](ort.NewShape(1, NumClasses))
	if err != nil {
		return 0, nil, fmt.Errorf("onnx: failed to create probability tensor: %w", err)
	}
	defer tProba.Destroy()

	if err := m.session.Run([]ort.Value{tIn}, []ort.Value{tLabel, tProba}); err != nil {
		return 0, nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	// Copy data out before the tensors are destroyed.
	src := tProba.GetData()
	proba := make([]float64, len(src))
	for i, p := range src {
		proba[i] = float64(p)
	}
	if err := checkProba(proba); err != nil {
		return 0, nil, err
	}
	return tLabel.GetData()[0], proba, nil
}

// Close releases the ONNX session.
func (m *ONNX) Close() error {
	if m.session == nil {
		return nil
	}
	return m.session.Destroy()
}
