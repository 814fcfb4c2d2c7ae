package indent_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/bladefmt/pkg/indent"
	"github.com/yaklabco/bladefmt/pkg/parser/blade"
)

const benchTemplate = `@extends('layouts.app')

@section('content')
<div class="container">
@if($users->isEmpty())
<p>No users yet.</p>
@else
<ul>
@foreach($users as $user)
<li>{{ $user->name }}</li>
@endforeach
</ul>
@endif
<script>
  window.app = {{ Js::from($config) }};
</script>
</div>
@endsection
`

func BenchmarkCalculate(b *testing.B) {
	src := []byte(strings.Repeat(benchTemplate, 50))
	tpl := blade.ParseBytes(src, false)

	b.ReportAllocs()
	b.SetBytes(int64(len(src)))
	for b.Loop() {
		_ = indent.Calculate(tpl)
	}
}

func BenchmarkCalculateSource_Live(b *testing.B) {
	src := []byte(strings.Repeat(benchTemplate, 50))

	b.ReportAllocs()
	b.SetBytes(int64(len(src)))
	for b.Loop() {
		_ = indent.CalculateSource(src, true)
	}
}
