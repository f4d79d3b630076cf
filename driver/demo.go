package driver

import (
	"irkit/llvm"
)

// BuildDemo builds the example module: a function `add` summing its two `i32`
// arguments and a `main` printing `add(2, 3)` with `printf`.
func BuildDemo(lctx *llvm.Context) (*llvm.Module, error) {
	mod, err := lctx.NewModule("demo")
	if err != nil {
		return nil, err
	}

	b, err := lctx.NewBuilder()
	if err != nil {
		return nil, err
	}

	i32 := lctx.Int32Type()

	addType, err := lctx.FunctionType(i32, []llvm.Type{i32, i32}, false)
	if err != nil {
		return nil, err
	}

	add, err := mod.AddFunction("add", addType)
	if err != nil {
		return nil, err
	}

	params := add.Params()
	params[0].SetName("a")
	params[1].SetName("b")

	entry, err := add.AppendBasicBlock("entry")
	if err != nil {
		return nil, err
	}

	if err := b.SetInsertPointAtEnd(entry); err != nil {
		return nil, err
	}

	sum, err := b.CreateAdd(params[0], params[1], "sum")
	if err != nil {
		return nil, err
	}

	if _, err := b.CreateRet(sum); err != nil {
		return nil, err
	}

	// main
	ptr, err := lctx.PointerType(0)
	if err != nil {
		return nil, err
	}

	printfType, err := lctx.FunctionType(i32, []llvm.Type{ptr}, true)
	if err != nil {
		return nil, err
	}

	printf, err := mod.AddFunction("printf", printfType)
	if err != nil {
		return nil, err
	}

	mainType, err := lctx.FunctionType(i32, nil, false)
	if err != nil {
		return nil, err
	}

	mainFn, err := mod.AddFunction("main", mainType)
	if err != nil {
		return nil, err
	}

	entry, err = mainFn.AppendBasicBlock("entry")
	if err != nil {
		return nil, err
	}

	if err := b.SetInsertPointAtEnd(entry); err != nil {
		return nil, err
	}

	two, err := llvm.ConstInt(i32, 2, false)
	if err != nil {
		return nil, err
	}

	three, err := llvm.ConstInt(i32, 3, false)
	if err != nil {
		return nil, err
	}

	result, err := b.CreateCall(add, []llvm.Value{two, three}, "result")
	if err != nil {
		return nil, err
	}

	format, err := b.CreateGlobalString("add(2, 3) = %d\n", "format")
	if err != nil {
		return nil, err
	}

	if _, err := b.CreateCall(printf, []llvm.Value{format, result}, ""); err != nil {
		return nil, err
	}

	zero, err := llvm.ConstInt(i32, 0, false)
	if err != nil {
		return nil, err
	}

	if _, err := b.CreateRet(zero); err != nil {
		return nil, err
	}

	if err := mod.Verify(); err != nil {
		return nil, err
	}

	return mod, nil
}
